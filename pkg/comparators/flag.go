/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: flag.go
Description: Diagnostic and strictness rules: FlagComparator marks every visited position,
NoAdditionalPropertiesComparator closes object positions.
*/

package comparators

import (
	"github.com/kleascm/genschema/pkg/interfaces"
)

// FlagComparator adds `flag: true` to every position it visits
type FlagComparator struct{}

// NewFlagComparator creates the flag rule
func NewFlagComparator() *FlagComparator {
	return &FlagComparator{}
}

// Name returns the name of this comparator
func (c *FlagComparator) Name() string {
	return "flag"
}

// Description returns a description of this comparator
func (c *FlagComparator) Description() string {
	return "Marks every visited position with flag: true"
}

// CanApply implements interfaces.Comparator
func (c *FlagComparator) CanApply(interfaces.ProcessingContext, string, interfaces.Node) bool {
	return true
}

// Apply implements interfaces.Comparator
func (c *FlagComparator) Apply(interfaces.ProcessingContext, string, interfaces.Node) (interfaces.Node, []interfaces.Node) {
	return interfaces.Node{"flag": true}, nil
}

// NoAdditionalPropertiesComparator forbids properties not seen in any resource
type NoAdditionalPropertiesComparator struct{}

// NewNoAdditionalPropertiesComparator creates the closed-object rule
func NewNoAdditionalPropertiesComparator() *NoAdditionalPropertiesComparator {
	return &NoAdditionalPropertiesComparator{}
}

// Name returns the name of this comparator
func (c *NoAdditionalPropertiesComparator) Name() string {
	return "no-additional-properties"
}

// Description returns a description of this comparator
func (c *NoAdditionalPropertiesComparator) Description() string {
	return "Sets additionalProperties: false on object positions that are not pseudo-arrays"
}

// CanApply implements interfaces.Comparator
func (c *NoAdditionalPropertiesComparator) CanApply(_ interfaces.ProcessingContext, _ string, node interfaces.Node) bool {
	return node.Type() == TypeObject && !node.Bool(interfaces.PseudoArrayKey)
}

// Apply implements interfaces.Comparator
func (c *NoAdditionalPropertiesComparator) Apply(interfaces.ProcessingContext, string, interfaces.Node) (interfaces.Node, []interfaces.Node) {
	return interfaces.Node{"additionalProperties": false}, nil
}
