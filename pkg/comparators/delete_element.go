/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: delete_element.go
Description: Cleanup rules. DeleteElementComparator wraps a transient keyword in a deletion
marker so the engine drops it before the position is finalized.
*/

package comparators

import (
	"github.com/kleascm/genschema/pkg/interfaces"
)

// DeleteElementComparator marks one keyword for removal
type DeleteElementComparator struct {
	key string
}

// NewDeleteElementComparator creates a cleanup rule for key. An empty key targets the trigger key.
func NewDeleteElementComparator(key string) *DeleteElementComparator {
	if key == "" {
		key = interfaces.TriggerKey
	}
	return &DeleteElementComparator{key: key}
}

// Name returns the name of this comparator
func (c *DeleteElementComparator) Name() string {
	return "delete-element"
}

// Description returns a description of this comparator
func (c *DeleteElementComparator) Description() string {
	return "Removes the transient " + c.key + " keyword from the draft"
}

// Key returns the keyword this rule removes
func (c *DeleteElementComparator) Key() string {
	return c.key
}

// CanApply implements interfaces.Comparator
func (c *DeleteElementComparator) CanApply(_ interfaces.ProcessingContext, _ string, node interfaces.Node) bool {
	v, ok := node[c.key]
	if !ok {
		return false
	}
	_, marked := v.(*interfaces.Deletion)
	return !marked
}

// Apply implements interfaces.Comparator
func (c *DeleteElementComparator) Apply(_ interfaces.ProcessingContext, _ string, node interfaces.Node) (interfaces.Node, []interfaces.Node) {
	return interfaces.Node{c.key: &interfaces.Deletion{Content: node[c.key], CausedBy: c.Name()}}, nil
}

// CleanupComparators returns the rules removing the trigger key and, when pseudo-array
// classification is active, the pseudo-array marker
func CleanupComparators(pseudoArrays bool) []interfaces.Comparator {
	rules := []interfaces.Comparator{NewDeleteElementComparator(interfaces.TriggerKey)}
	if pseudoArrays {
		rules = append(rules, NewDeleteElementComparator(interfaces.PseudoArrayKey))
	}
	return rules
}
