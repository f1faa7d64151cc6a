/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: type.go
Description: The mandatory type rule. Classifies the JSON type of every resource at a
position and either fixes the position's type or forks it into one alternative per type.
*/

package comparators

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/kleascm/genschema/pkg/interfaces"
)

// JSON Schema type names
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
)

// TypeComparator infers `type` from schemas and samples
type TypeComparator struct{}

// NewTypeComparator creates the type rule
func NewTypeComparator() *TypeComparator {
	return &TypeComparator{}
}

// Name returns the name of this comparator
func (c *TypeComparator) Name() string {
	return "type"
}

// Description returns a description of this comparator
func (c *TypeComparator) Description() string {
	return "Infers the JSON type of a position, forking into alternatives when resources disagree"
}

// Core marks the type rule as mandatory
func (c *TypeComparator) Core() {}

// CanApply implements interfaces.Comparator
func (c *TypeComparator) CanApply(ctx interfaces.ProcessingContext, _ string, node interfaces.Node) bool {
	if _, ok := node.Lookup("type"); ok {
		return false
	}
	return !ctx.IsEmpty()
}

// Apply implements interfaces.Comparator
func (c *TypeComparator) Apply(ctx interfaces.ProcessingContext, _ string, _ interfaces.Node) (interfaces.Node, []interfaces.Node) {
	groups := newOrderedGroups()
	for _, s := range ctx.Schemas {
		if t := SchemaType(s.Content); t != "" {
			groups.add(t, s.ID)
		}
	}
	for _, s := range ctx.Samples {
		if t := SampleType(s.Content); t != "" {
			groups.add(t, s.ID)
		}
	}

	switch {
	case groups.len() == 0:
		return nil, nil
	case groups.len() == 1 || ctx.Sealed:
		label, ids := groups.first()
		return interfaces.NewVariant(interfaces.Node{"type": label}, ids), nil
	}

	variants := make([]interfaces.Node, 0, groups.len())
	for _, label := range groups.order {
		variants = append(variants, interfaces.NewVariant(interfaces.Node{"type": label}, groups.ids[label]))
	}
	return nil, variants
}

// SchemaType returns the type a schema fragment declares or implies, "" when unknown
func SchemaType(content interface{}) string {
	schema, ok := interfaces.AsObject(content)
	if !ok {
		return ""
	}
	if t, ok := schema["type"].(string); ok {
		return t
	}
	if _, ok := schema["properties"]; ok {
		return TypeObject
	}
	if _, ok := schema["items"]; ok {
		return TypeArray
	}
	return ""
}

// SampleType returns the JSON type of a decoded value, "" for values JSON cannot hold.
//
// A json.Number keeps its literal, so "1.0" and "1e3" are number and only a bare digit
// run is integer. A float64 has lost the literal and is integer whenever it is integral
// and finite. The loader produces json.Number, so 1.0 read from a file is number while
// the same value passed in as a float64 is integer.
func SampleType(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case json.Number:
		if strings.ContainsAny(string(x), ".eE") {
			return TypeNumber
		}
		return TypeInteger
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInteger
	case float32:
		return floatType(float64(x))
	case float64:
		return floatType(x)
	case []interface{}:
		return TypeArray
	case map[string]interface{}, interfaces.Node:
		return TypeObject
	}
	return ""
}

func floatType(f float64) string {
	if !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) {
		return TypeInteger
	}
	return TypeNumber
}

// orderedGroups buckets resource ids by label, remembering first-seen label order
type orderedGroups struct {
	order []string
	ids   map[string][]string
}

func newOrderedGroups() *orderedGroups {
	return &orderedGroups{ids: make(map[string][]string)}
}

func (g *orderedGroups) add(label, id string) {
	if _, ok := g.ids[label]; !ok {
		g.order = append(g.order, label)
	}
	g.ids[label] = append(g.ids[label], id)
}

func (g *orderedGroups) len() int {
	return len(g.order)
}

func (g *orderedGroups) first() (string, []string) {
	label := g.order[0]
	return label, g.ids[label]
}
