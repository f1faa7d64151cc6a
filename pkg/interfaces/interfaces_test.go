/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces_test.go
Description: Tests for resources, processing contexts and draft nodes.
*/

package interfaces

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceChild(t *testing.T) {
	r := NewSampleResource("0", map[string]interface{}{"a": 1})

	child := r.Child(1, "properties", "a")
	assert.Equal(t, "0/properties/a", child.ID)
	assert.Equal(t, KindSample, child.Kind)
	assert.Equal(t, "0", r.Child(nil).ID)
	assert.Equal(t, "schema", KindSchema.String())
}

func TestContextRestrictAndSeal(t *testing.T) {
	ctx := NewContext(
		[]*Resource{NewSchemaResource("0", nil)},
		[]*Resource{NewSampleResource("1", 1), NewSampleResource("2", "x")},
	)
	assert.Equal(t, 3, ctx.Len())
	assert.Equal(t, []string{"0", "1", "2"}, ctx.IDs())

	sub := ctx.Restrict([]string{"2", "0"})
	assert.Equal(t, []string{"0", "2"}, sub.IDs())
	assert.False(t, sub.Sealed)

	sealed := sub.Seal()
	assert.True(t, sealed.Sealed)
	assert.False(t, sub.Sealed)
	assert.True(t, sealed.Restrict([]string{"0"}).Sealed)

	assert.Equal(t, ctx.IDs(), ctx.Restrict(nil).IDs())
	assert.True(t, ctx.Restrict([]string{"missing"}).IsEmpty())
}

func TestNodeHelpers(t *testing.T) {
	n := NewVariant(Node{"type": "object"}, []string{"a", "b"})
	assert.Equal(t, "object", n.Type())
	assert.Equal(t, []string{"a", "b"}, n.TriggerIDs())

	clone := n.Clone()
	clone["type"] = "array"
	assert.Equal(t, "object", n.Type())

	n[PseudoArrayKey] = &Deletion{Content: true, CausedBy: "test"}
	assert.True(t, n.Bool(PseudoArrayKey))

	n.Merge(Node{"type": "string"})
	assert.Equal(t, "string", n.Type())

	assert.Equal(t, []string{PseudoArrayKey}, n.StripDeletions())
	assert.NotContains(t, n, PseudoArrayKey)

	decoded := Node{TriggerKey: []interface{}{"x", 1}}
	assert.Equal(t, []string{"x"}, decoded.TriggerIDs())
}

func TestDeletionRefusesSerialization(t *testing.T) {
	_, err := json.Marshal(Node{"k": &Deletion{CausedBy: "delete-element"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete-element")
}

func TestShapeHelpers(t *testing.T) {
	_, ok := AsObject(Node{})
	assert.True(t, ok)
	_, ok = AsObject([]interface{}{})
	assert.False(t, ok)
	_, ok = AsArray([]interface{}{})
	assert.True(t, ok)
}
