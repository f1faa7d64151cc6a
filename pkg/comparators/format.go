/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: format.go
Description: Format rule for string positions. Buckets resources by declared or detected
format and forks the position when more than one format is seen.
*/

package comparators

import (
	"github.com/kleascm/genschema/pkg/formats"
	"github.com/kleascm/genschema/pkg/interfaces"
)

// FormatComparator infers `format` for string positions
type FormatComparator struct {
	detector interfaces.FormatDetector
}

// NewFormatComparator creates a format rule. A nil detector uses the default catalog.
func NewFormatComparator(detector interfaces.FormatDetector) *FormatComparator {
	if detector == nil {
		detector = formats.DefaultDetector()
	}
	return &FormatComparator{detector: detector}
}

// Name returns the name of this comparator
func (c *FormatComparator) Name() string {
	return "format"
}

// Description returns a description of this comparator
func (c *FormatComparator) Description() string {
	return "Detects string formats (email, uuid, date, date-time, uri, ipv4) and honours declared ones"
}

// CanApply implements interfaces.Comparator
func (c *FormatComparator) CanApply(_ interfaces.ProcessingContext, _ string, node interfaces.Node) bool {
	return node.Type() == TypeString
}

// Apply implements interfaces.Comparator
func (c *FormatComparator) Apply(ctx interfaces.ProcessingContext, _ string, node interfaces.Node) (interfaces.Node, []interfaces.Node) {
	plain := newIDSet()
	for _, id := range node.TriggerIDs() {
		plain.add(id)
	}
	labelled := newOrderedGroups()

	for _, s := range ctx.Schemas {
		if SchemaType(s.Content) != TypeString {
			continue
		}
		schema, _ := interfaces.AsObject(s.Content)
		if f, ok := schema["format"].(string); ok && f != "" {
			labelled.add(f, s.ID)
			plain.remove(s.ID)
		} else {
			plain.add(s.ID)
		}
	}
	for _, s := range ctx.Samples {
		value, ok := s.Content.(string)
		if !ok {
			continue
		}
		if f, found := c.detector.Detect(value); found {
			labelled.add(f, s.ID)
			plain.remove(s.ID)
		} else {
			plain.add(s.ID)
		}
	}

	var variants []interfaces.Node
	if plain.len() > 0 {
		variants = append(variants, interfaces.NewVariant(interfaces.Node{"type": TypeString}, plain.list()))
	}
	for _, f := range labelled.order {
		variants = append(variants, interfaces.NewVariant(interfaces.Node{"type": TypeString, "format": f}, labelled.ids[f]))
	}

	switch {
	case len(variants) == 0:
		return nil, nil
	case len(variants) == 1 || ctx.Sealed:
		return variants[0], nil
	}
	return nil, variants
}

// idSet is an insertion-ordered set of resource ids
type idSet struct {
	order []string
	index map[string]bool
}

func newIDSet() *idSet {
	return &idSet{index: make(map[string]bool)}
}

func (s *idSet) add(id string) {
	if _, seen := s.index[id]; !seen {
		s.order = append(s.order, id)
	}
	s.index[id] = true
}

func (s *idSet) remove(id string) {
	if s.index[id] {
		s.index[id] = false
	}
}

func (s *idSet) list() []string {
	out := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if s.index[id] {
			out = append(out, id)
		}
	}
	return out
}

func (s *idSet) len() int {
	return len(s.list())
}
