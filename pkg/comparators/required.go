/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: required.go
Description: Required rule. Marks the properties present in every sample as required.
*/

package comparators

import (
	"sort"

	"github.com/kleascm/genschema/pkg/interfaces"
)

// RequiredComparator emits `required` for object positions
type RequiredComparator struct{}

// NewRequiredComparator creates the required rule
func NewRequiredComparator() *RequiredComparator {
	return &RequiredComparator{}
}

// Name returns the name of this comparator
func (c *RequiredComparator) Name() string {
	return "required"
}

// Description returns a description of this comparator
func (c *RequiredComparator) Description() string {
	return "Marks properties present in every sample object as required"
}

// CanApply implements interfaces.Comparator
func (c *RequiredComparator) CanApply(ctx interfaces.ProcessingContext, _ string, node interfaces.Node) bool {
	t := node.Type()
	if t == TypeObject && !node.Bool(interfaces.PseudoArrayKey) {
		return true
	}
	return t == "" || len(ctx.Samples) == 0
}

// Apply implements interfaces.Comparator
func (c *RequiredComparator) Apply(ctx interfaces.ProcessingContext, _ string, _ interfaces.Node) (interfaces.Node, []interfaces.Node) {
	if len(ctx.Samples) == 0 {
		return nil, nil
	}

	var common map[string]struct{}
	for _, s := range ctx.Samples {
		obj, ok := interfaces.AsObject(s.Content)
		if !ok {
			return nil, nil
		}
		if common == nil {
			common = make(map[string]struct{}, len(obj))
			for k := range obj {
				common[k] = struct{}{}
			}
			continue
		}
		for k := range common {
			if _, present := obj[k]; !present {
				delete(common, k)
			}
		}
	}
	if len(common) == 0 {
		return nil, nil
	}

	required := make([]string, 0, len(common))
	for k := range common {
		required = append(required, k)
	}
	sort.Strings(required)
	return interfaces.Node{"required": required}, nil
}
