/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: node.go
Description: Draft schema nodes and deletion markers. A node is a keyword map built up
by the rules at one tree position; deletion markers are transient wrappers that the
engine strips before a node is returned.
*/

package interfaces

import (
	"fmt"
	"sort"
)

const (
	// TriggerKey holds the ids of the resources that back a draft or a variant
	TriggerKey = "elementTrigger"
	// PseudoArrayKey holds the pseudo-array classification of an object position
	PseudoArrayKey = "isPseudoArray"
)

// Node is a draft schema fragment: keyword to value
type Node map[string]interface{}

// Deletion marks a keyword for removal during cleanup
type Deletion struct {
	Content  interface{}
	CausedBy string
}

// MarshalJSON refuses to serialize a marker that survived cleanup
func (d *Deletion) MarshalJSON() ([]byte, error) {
	return nil, fmt.Errorf("deletion marker from %s was not stripped", d.CausedBy)
}

// NewVariant creates an alternative fragment backed by the given resource ids
func NewVariant(fields Node, ids []string) Node {
	v := fields.Clone()
	if v == nil {
		v = Node{}
	}
	v[TriggerKey] = append([]string(nil), ids...)
	return v
}

// Clone returns a shallow copy of the node
func (n Node) Clone() Node {
	if n == nil {
		return nil
	}
	out := make(Node, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}

// Lookup returns a keyword value, looking through deletion markers
func (n Node) Lookup(key string) (interface{}, bool) {
	v, ok := n[key]
	if !ok {
		return nil, false
	}
	if d, isDel := v.(*Deletion); isDel {
		return d.Content, true
	}
	return v, true
}

// Type returns the `type` keyword when it is a string
func (n Node) Type() string {
	v, _ := n.Lookup("type")
	s, _ := v.(string)
	return s
}

// Bool returns a boolean keyword, false when absent
func (n Node) Bool(key string) bool {
	v, _ := n.Lookup(key)
	b, _ := v.(bool)
	return b
}

// TriggerIDs returns the resource ids recorded under TriggerKey
func (n Node) TriggerIDs() []string {
	v, ok := n.Lookup(TriggerKey)
	if !ok {
		return nil
	}
	switch ids := v.(type) {
	case []string:
		return ids
	case []interface{}:
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if s, ok := id.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Merge copies every keyword of other into n. Later writers win.
func (n Node) Merge(other Node) {
	for k, v := range other {
		n[k] = v
	}
}

// StripDeletions removes every keyword holding a deletion marker and returns their names
func (n Node) StripDeletions() []string {
	var removed []string
	for k, v := range n {
		if _, ok := v.(*Deletion); ok {
			delete(n, k)
			removed = append(removed, k)
		}
	}
	sort.Strings(removed)
	return removed
}

// AsObject returns v as a JSON object
func AsObject(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case Node:
		return m, true
	}
	return nil, false
}

// AsArray returns v as a JSON array
func AsArray(v interface{}) ([]interface{}, bool) {
	a, ok := v.([]interface{})
	return a, ok
}
