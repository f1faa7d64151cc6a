/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: comparators_test.go
Description: Tests for the built-in inference rules and the comparator catalog.
*/

package comparators

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/kleascm/genschema/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples(values ...interface{}) interfaces.ProcessingContext {
	var res []*interfaces.Resource
	for i, v := range values {
		res = append(res, interfaces.NewSampleResource(string(rune('0'+i)), v))
	}
	return interfaces.NewContext(nil, res)
}

func TestSampleType(t *testing.T) {
	cases := []struct {
		value interface{}
		want  string
	}{
		{nil, TypeNull},
		{true, TypeBoolean},
		{"x", TypeString},
		{10, TypeInteger},
		{int64(-3), TypeInteger},
		{10.0, TypeInteger},
		{1.5, TypeNumber},
		{json.Number("42"), TypeInteger},
		{json.Number("1.0"), TypeNumber},
		{json.Number("1e3"), TypeNumber},
		{[]interface{}{}, TypeArray},
		{map[string]interface{}{}, TypeObject},
		{struct{}{}, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SampleType(tc.value), "%#v", tc.value)
	}
}

func TestSampleTypeDependsOnDecoding(t *testing.T) {
	raw := []byte(`{"v": 1.0}`)

	var plain map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &plain))
	assert.Equal(t, TypeInteger, SampleType(plain["v"]))

	var literal map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&literal))
	assert.Equal(t, TypeNumber, SampleType(literal["v"]))
}

func TestSchemaType(t *testing.T) {
	assert.Equal(t, "string", SchemaType(map[string]interface{}{"type": "string"}))
	assert.Equal(t, TypeObject, SchemaType(map[string]interface{}{"properties": map[string]interface{}{}}))
	assert.Equal(t, TypeArray, SchemaType(map[string]interface{}{"items": map[string]interface{}{}}))
	assert.Equal(t, "", SchemaType(map[string]interface{}{"type": []interface{}{"string", "null"}}))
	assert.Equal(t, "", SchemaType("not a schema"))
}

func TestTypeComparatorSingleType(t *testing.T) {
	c := NewTypeComparator()
	ctx := samples("a", "b")

	require.True(t, c.CanApply(ctx, "", interfaces.Node{}))
	direct, variants := c.Apply(ctx, "", interfaces.Node{})

	assert.Nil(t, variants)
	assert.Equal(t, "string", direct.Type())
	assert.Equal(t, []string{"0", "1"}, direct.TriggerIDs())
}

func TestTypeComparatorForks(t *testing.T) {
	c := NewTypeComparator()
	ctx := samples(1, "a", 2)

	direct, variants := c.Apply(ctx, "", interfaces.Node{})

	assert.Nil(t, direct)
	require.Len(t, variants, 2)
	assert.Equal(t, "integer", variants[0].Type())
	assert.Equal(t, []string{"0", "2"}, variants[0].TriggerIDs())
	assert.Equal(t, "string", variants[1].Type())
	assert.Equal(t, []string{"1"}, variants[1].TriggerIDs())
}

func TestTypeComparatorSealedPicksFirst(t *testing.T) {
	c := NewTypeComparator()
	ctx := samples(1, "a").Seal()

	direct, variants := c.Apply(ctx, "", interfaces.Node{})

	assert.Empty(t, variants)
	assert.Equal(t, "integer", direct.Type())
	assert.Equal(t, []string{"0"}, direct.TriggerIDs())
}

func TestTypeComparatorSchemasFirst(t *testing.T) {
	c := NewTypeComparator()
	ctx := interfaces.NewContext(
		[]*interfaces.Resource{interfaces.NewSchemaResource("s", map[string]interface{}{"type": "string"})},
		[]*interfaces.Resource{interfaces.NewSampleResource("x", 3)},
	)

	_, variants := c.Apply(ctx, "", interfaces.Node{})
	require.Len(t, variants, 2)
	assert.Equal(t, "string", variants[0].Type())
	assert.Equal(t, "integer", variants[1].Type())
}

func TestTypeComparatorCanApply(t *testing.T) {
	c := NewTypeComparator()
	assert.False(t, c.CanApply(samples("a"), "", interfaces.Node{"type": "string"}))
	assert.False(t, c.CanApply(interfaces.ProcessingContext{}, "", interfaces.Node{}))
}

func TestFormatComparator(t *testing.T) {
	c := NewFormatComparator(nil)

	t.Run("single format is direct", func(t *testing.T) {
		ctx := samples("https://a.ru", "http://b.com")
		node := interfaces.NewVariant(interfaces.Node{"type": "string"}, []string{"0", "1"})
		require.True(t, c.CanApply(ctx, "", node))

		direct, variants := c.Apply(ctx, "", node)
		assert.Nil(t, variants)
		assert.Equal(t, "uri", direct["format"])
		assert.Equal(t, []string{"0", "1"}, direct.TriggerIDs())
	})

	t.Run("no format keeps plain string", func(t *testing.T) {
		ctx := samples("fdfddfm")
		node := interfaces.NewVariant(interfaces.Node{"type": "string"}, []string{"0"})

		direct, variants := c.Apply(ctx, "", node)
		assert.Nil(t, variants)
		assert.NotContains(t, direct, "format")
		assert.Equal(t, "string", direct.Type())
	})

	t.Run("mixed formats fork", func(t *testing.T) {
		ctx := samples("plain", "user@example.com", "2024-01-01")
		node := interfaces.NewVariant(interfaces.Node{"type": "string"}, []string{"0", "1", "2"})

		direct, variants := c.Apply(ctx, "", node)
		assert.Nil(t, direct)
		require.Len(t, variants, 3)
		assert.NotContains(t, variants[0], "format")
		assert.Equal(t, []string{"0"}, variants[0].TriggerIDs())
		assert.Equal(t, "email", variants[1]["format"])
		assert.Equal(t, []string{"1"}, variants[1].TriggerIDs())
		assert.Equal(t, "date", variants[2]["format"])
	})

	t.Run("sealed picks first", func(t *testing.T) {
		ctx := samples("user@example.com", "2024-01-01").Seal()
		node := interfaces.Node{"type": "string"}

		direct, variants := c.Apply(ctx, "", node)
		assert.Empty(t, variants)
		assert.Equal(t, "email", direct["format"])
	})

	t.Run("declared schema format", func(t *testing.T) {
		ctx := interfaces.NewContext(
			[]*interfaces.Resource{interfaces.NewSchemaResource("0", map[string]interface{}{"type": "string", "format": "hostname"})},
			nil,
		)
		direct, _ := c.Apply(ctx, "", interfaces.Node{"type": "string"})
		assert.Equal(t, "hostname", direct["format"])
	})

	t.Run("only strings", func(t *testing.T) {
		assert.False(t, c.CanApply(samples(1), "", interfaces.Node{"type": "integer"}))
	})
}

func TestRequiredComparator(t *testing.T) {
	c := NewRequiredComparator()

	ctx := samples(
		map[string]interface{}{"a": 1, "b": 2, "c": 3},
		map[string]interface{}{"b": 1, "a": 2},
	)
	node := interfaces.Node{"type": "object"}
	require.True(t, c.CanApply(ctx, "", node))

	direct, variants := c.Apply(ctx, "", node)
	assert.Nil(t, variants)
	assert.Equal(t, []string{"a", "b"}, direct["required"])

	t.Run("non object sample empties the set", func(t *testing.T) {
		direct, _ := c.Apply(samples(map[string]interface{}{"a": 1}, []interface{}{}), "", interfaces.Node{})
		assert.Nil(t, direct)
	})

	t.Run("no samples", func(t *testing.T) {
		direct, _ := c.Apply(interfaces.ProcessingContext{}, "", interfaces.Node{"type": "object"})
		assert.Nil(t, direct)
	})

	t.Run("no common keys", func(t *testing.T) {
		direct, _ := c.Apply(samples(map[string]interface{}{"a": 1}, map[string]interface{}{"b": 1}), "", node)
		assert.Nil(t, direct)
	})

	t.Run("pseudo arrays are skipped", func(t *testing.T) {
		pseudo := interfaces.Node{"type": "object", interfaces.PseudoArrayKey: true}
		assert.False(t, c.CanApply(ctx, "", pseudo))
	})

	t.Run("scalars are skipped", func(t *testing.T) {
		assert.False(t, c.CanApply(samples("x"), "", interfaces.Node{"type": "string"}))
	})
}

func TestEmptyComparator(t *testing.T) {
	c := NewEmptyComparator()

	direct, _ := c.Apply(samples(map[string]interface{}{}), "", interfaces.Node{"type": "object"})
	assert.Equal(t, interfaces.Node{"maxProperties": 0}, direct)

	direct, _ = c.Apply(samples([]interface{}{1}, []interface{}{2}), "", interfaces.Node{"type": "array"})
	assert.Equal(t, interfaces.Node{"minItems": 1}, direct)

	direct, _ = c.Apply(samples([]interface{}{}, []interface{}{2}), "", interfaces.Node{"type": "array"})
	assert.Nil(t, direct)

	assert.False(t, c.CanApply(samples("x"), "", interfaces.Node{"type": "string"}))

	quiet := NewEmptyComparator(WithNonEmptyBound(false))
	direct, _ = quiet.Apply(samples(map[string]interface{}{"a": 1}), "", interfaces.Node{"type": "object"})
	assert.Nil(t, direct)

	quiet = NewEmptyComparator(WithEmptyBound(false))
	direct, _ = quiet.Apply(samples(map[string]interface{}{}), "", interfaces.Node{"type": "object"})
	assert.Nil(t, direct)
}

func TestDeleteElementComparator(t *testing.T) {
	c := NewDeleteElementComparator("")
	assert.Equal(t, interfaces.TriggerKey, c.Key())

	node := interfaces.NewVariant(interfaces.Node{"type": "string"}, []string{"0"})
	require.True(t, c.CanApply(interfaces.ProcessingContext{}, "", node))

	direct, _ := c.Apply(interfaces.ProcessingContext{}, "", node)
	node.Merge(direct)

	marker, ok := node[interfaces.TriggerKey].(*interfaces.Deletion)
	require.True(t, ok)
	assert.Equal(t, []string{"0"}, marker.Content)
	assert.False(t, c.CanApply(interfaces.ProcessingContext{}, "", node))

	assert.Equal(t, []string{interfaces.TriggerKey}, node.StripDeletions())
	assert.Equal(t, interfaces.Node{"type": "string"}, node)
}

func TestCleanupComparators(t *testing.T) {
	assert.Len(t, CleanupComparators(false), 1)
	rules := CleanupComparators(true)
	require.Len(t, rules, 2)
	assert.Equal(t, interfaces.PseudoArrayKey, rules[1].(*DeleteElementComparator).Key())
}

func TestFlagAndClosedObject(t *testing.T) {
	flag := NewFlagComparator()
	assert.True(t, flag.CanApply(interfaces.ProcessingContext{}, "", interfaces.Node{}))
	direct, _ := flag.Apply(interfaces.ProcessingContext{}, "", interfaces.Node{})
	assert.Equal(t, true, direct["flag"])

	closed := NewNoAdditionalPropertiesComparator()
	assert.True(t, closed.CanApply(interfaces.ProcessingContext{}, "", interfaces.Node{"type": "object"}))
	assert.False(t, closed.CanApply(interfaces.ProcessingContext{}, "", interfaces.Node{"type": "object", interfaces.PseudoArrayKey: true}))
}

func TestSet(t *testing.T) {
	s, err := NewSet(NewFormatComparator(nil), NewRequiredComparator())
	require.NoError(t, err)
	assert.Equal(t, []string{"format", "required"}, s.Names())

	assert.ErrorIs(t, s.Add(NewTypeComparator()), ErrCoreComparator)
	assert.ErrorIs(t, s.Add(nil), ErrNilComparator)
	assert.Equal(t, 2, s.Len())
}

func TestCatalog(t *testing.T) {
	s, err := Build([]string{"format", " Required ", "delete-element"})
	require.NoError(t, err)
	assert.Equal(t, []string{"format", "required", "delete-element"}, s.Names())

	_, err = Build([]string{"nope"})
	assert.ErrorIs(t, err, ErrUnknownComparator)

	_, err = Lookup("type")
	assert.ErrorIs(t, err, ErrCoreComparator)

	entries := Catalog()
	require.Len(t, entries, 6)
	assert.Equal(t, "format", entries[0].Name)
	assert.True(t, entries[0].Default)
	assert.False(t, entries[4].Default)
}
