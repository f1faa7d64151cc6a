/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: empty.go
Description: Empty rule. Bounds the size of object and array positions when every
resource agrees on being empty or on being non-empty.
*/

package comparators

import (
	"github.com/kleascm/genschema/pkg/interfaces"
)

// EmptyComparator emits min/max size bounds for containers
type EmptyComparator struct {
	flagEmpty    bool
	flagNonEmpty bool
}

// EmptyOption configures an EmptyComparator
type EmptyOption func(*EmptyComparator)

// WithEmptyBound toggles maxProperties/maxItems 0 for all-empty positions
func WithEmptyBound(enabled bool) EmptyOption {
	return func(c *EmptyComparator) { c.flagEmpty = enabled }
}

// WithNonEmptyBound toggles minProperties/minItems 1 for all-non-empty positions
func WithNonEmptyBound(enabled bool) EmptyOption {
	return func(c *EmptyComparator) { c.flagNonEmpty = enabled }
}

// NewEmptyComparator creates the empty rule with both bounds enabled
func NewEmptyComparator(opts ...EmptyOption) *EmptyComparator {
	c := &EmptyComparator{flagEmpty: true, flagNonEmpty: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the name of this comparator
func (c *EmptyComparator) Name() string {
	return "empty"
}

// Description returns a description of this comparator
func (c *EmptyComparator) Description() string {
	return "Adds maxProperties/maxItems 0 or minProperties/minItems 1 when resources agree on emptiness"
}

// CanApply implements interfaces.Comparator
func (c *EmptyComparator) CanApply(_ interfaces.ProcessingContext, _ string, node interfaces.Node) bool {
	t := node.Type()
	return t == TypeObject || t == TypeArray
}

// Apply implements interfaces.Comparator
func (c *EmptyComparator) Apply(ctx interfaces.ProcessingContext, _ string, node interfaces.Node) (interfaces.Node, []interfaces.Node) {
	resources := ctx.Resources()
	if len(resources) == 0 {
		return nil, nil
	}

	nonEmpty := 0
	for _, r := range resources {
		if !isEmptyContainer(r.Content) {
			nonEmpty++
		}
	}

	minKey, maxKey := "minProperties", "maxProperties"
	if node.Type() == TypeArray {
		minKey, maxKey = "minItems", "maxItems"
	}

	switch {
	case nonEmpty == 0 && c.flagEmpty:
		return interfaces.Node{maxKey: 0}, nil
	case nonEmpty == len(resources) && c.flagNonEmpty:
		return interfaces.Node{minKey: 1}, nil
	}
	return nil, nil
}

// isEmptyContainer reports whether v is an empty object or array; scalars are never empty
func isEmptyContainer(v interface{}) bool {
	if obj, ok := interfaces.AsObject(v); ok {
		return len(obj) == 0
	}
	if arr, ok := interfaces.AsArray(v); ok {
		return len(arr) == 0
	}
	return false
}
