/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: structure.go
Description: Structural recursion. Projects the resources of an object, pseudo-array or
array position into the child contexts of its properties and items.
*/

package inference

import (
	"context"
	"sort"
	"strconv"

	"github.com/kleascm/genschema/pkg/comparators"
	"github.com/kleascm/genschema/pkg/interfaces"
	"github.com/kleascm/genschema/pkg/pseudoarray"
	"github.com/sirupsen/logrus"
)

// runObject recurses into every property name seen in any resource
func (e *Engine) runObject(ctx context.Context, log *logrus.Entry, pc interfaces.ProcessingContext, env string, node interfaces.Node) error {
	names := propertyNames(pc)
	if len(names) == 0 {
		return nil
	}

	results := make([]interfaces.Node, len(names))
	err := e.forEach(len(names), func(i int) error {
		child := propertyContext(pc, names[i])
		out, err := e.runLevel(ctx, log, child, env+"/properties/"+names[i], interfaces.Node{})
		if err != nil {
			return err
		}
		results[i] = out
		return nil
	})
	if err != nil {
		return err
	}

	props := make(map[string]interface{}, len(names))
	for i, name := range names {
		props[name] = results[i]
	}
	node["properties"] = props
	return nil
}

// runPseudoArray merges every member of the pseudo-array resources into one pattern child
func (e *Engine) runPseudoArray(ctx context.Context, log *logrus.Entry, pc interfaces.ProcessingContext, env string, node interfaces.Node, pattern string) error {
	child := pseudoArrayContext(pc)
	if child.IsEmpty() {
		return nil
	}
	out, err := e.runLevel(ctx, log, child, env+"/patternProperties/"+pattern, interfaces.Node{})
	if err != nil {
		return err
	}
	node["patternProperties"] = map[string]interface{}{pattern: out}
	return nil
}

// runArray merges schema items and every sample element into one items child
func (e *Engine) runArray(ctx context.Context, log *logrus.Entry, pc interfaces.ProcessingContext, env string, node interfaces.Node) error {
	child := arrayContext(pc)
	if child.IsEmpty() {
		return nil
	}
	out, err := e.runLevel(ctx, log, child, env+"/items", interfaces.Node{})
	if err != nil {
		return err
	}
	node["items"] = out
	return nil
}

// propertyNames returns the sorted union of schema property names and sample keys
func propertyNames(pc interfaces.ProcessingContext) []string {
	seen := make(map[string]struct{})
	for _, s := range pc.Schemas {
		if props, ok := schemaProperties(s.Content); ok {
			for k := range props {
				seen[k] = struct{}{}
			}
		}
	}
	for _, s := range pc.Samples {
		if obj, ok := interfaces.AsObject(s.Content); ok {
			for k := range obj {
				seen[k] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

// propertyContext builds the child context of one property
func propertyContext(pc interfaces.ProcessingContext, name string) interfaces.ProcessingContext {
	var schemas, samples []*interfaces.Resource
	for _, s := range pc.Schemas {
		props, ok := schemaProperties(s.Content)
		if !ok {
			continue
		}
		if v, ok := props[name]; ok {
			schemas = append(schemas, s.Child(v, "properties", name))
		}
	}
	for _, s := range pc.Samples {
		obj, ok := interfaces.AsObject(s.Content)
		if !ok {
			continue
		}
		if v, ok := obj[name]; ok {
			samples = append(samples, s.Child(v, "properties", name))
		}
	}
	child := interfaces.NewContext(schemas, samples)
	child.Sealed = pc.Sealed
	return child
}

// arrayContext builds the merged element context of an array position
func arrayContext(pc interfaces.ProcessingContext) interfaces.ProcessingContext {
	var schemas, samples []*interfaces.Resource
	for _, s := range pc.Schemas {
		schemas = append(schemas, schemaItems(s)...)
	}
	for _, s := range pc.Samples {
		samples = append(samples, sampleElements(s)...)
	}
	child := interfaces.NewContext(schemas, samples)
	child.Sealed = pc.Sealed
	return child
}

// pseudoArrayContext merges every integer-keyed member of every resource. The
// position as a whole is already classified, so resources are not re-checked.
func pseudoArrayContext(pc interfaces.ProcessingContext) interfaces.ProcessingContext {
	var schemas, samples []*interfaces.Resource
	for _, s := range pc.Schemas {
		schemas = append(schemas, schemaItems(s)...)
		props, ok := schemaProperties(s.Content)
		if !ok {
			continue
		}
		for _, k := range indexOrder(props) {
			schemas = append(schemas, s.Child(props[k], "properties", k))
		}
	}
	for _, s := range pc.Samples {
		samples = append(samples, sampleElements(s)...)
		obj, ok := interfaces.AsObject(s.Content)
		if !ok {
			continue
		}
		for _, k := range indexOrder(obj) {
			samples = append(samples, s.Child(obj[k], k))
		}
	}
	child := interfaces.NewContext(schemas, samples)
	child.Sealed = pc.Sealed
	return child
}

// schemaItems returns the item schemas of an array schema, single or tuple form
func schemaItems(s *interfaces.Resource) []*interfaces.Resource {
	schema, ok := interfaces.AsObject(s.Content)
	if !ok || comparators.SchemaType(schema) != comparators.TypeArray {
		return nil
	}
	if item, ok := interfaces.AsObject(schema["items"]); ok {
		return []*interfaces.Resource{s.Child(item, "items")}
	}
	tuple, ok := interfaces.AsArray(schema["items"])
	if !ok {
		return nil
	}
	var out []*interfaces.Resource
	for i, item := range tuple {
		if _, ok := interfaces.AsObject(item); ok {
			out = append(out, s.Child(item, "items", strconv.Itoa(i)))
		}
	}
	return out
}

func sampleElements(s *interfaces.Resource) []*interfaces.Resource {
	arr, ok := interfaces.AsArray(s.Content)
	if !ok {
		return nil
	}
	out := make([]*interfaces.Resource, 0, len(arr))
	for i, item := range arr {
		out = append(out, s.Child(item, "items", strconv.Itoa(i)))
	}
	return out
}

// schemaProperties returns the `properties` mapping of a schema fragment
func schemaProperties(content interface{}) (map[string]interface{}, bool) {
	schema, ok := interfaces.AsObject(content)
	if !ok {
		return nil, false
	}
	return interfaces.AsObject(schema["properties"])
}

// indexOrder returns the integer keys of obj in numeric order
func indexOrder(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if pseudoarray.IsIndexKey(k) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		if a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
