/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference.go
Description: Main entry point for JSON Schema inference. Defines the union keywords the
engine can emit and a one-call helper that infers a schema from a batch of samples.
*/

package inference

import (
	"fmt"
	"strings"

	"github.com/kleascm/genschema/pkg/interfaces"
)

// UnionKeyword is the JSON Schema keyword collecting type alternatives
type UnionKeyword string

const (
	AnyOf UnionKeyword = "anyOf"
	OneOf UnionKeyword = "oneOf"
	AllOf UnionKeyword = "allOf"
)

// ParseUnionKeyword resolves a keyword name, case-insensitively
func ParseUnionKeyword(name string) (UnionKeyword, error) {
	for _, k := range []UnionKeyword{AnyOf, OneOf, AllOf} {
		if strings.EqualFold(name, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want anyOf, oneOf or allOf)", ErrInvalidUnionKeyword, name)
}

// Infer builds a schema from samples using the default engine and the given rules
func Infer(samples []interface{}, rules ...interfaces.Comparator) (interfaces.Node, error) {
	engine, err := NewEngine(nil)
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		if err := engine.Register(rule); err != nil {
			return nil, err
		}
	}
	for _, s := range samples {
		engine.AddSample(s)
	}
	return engine.Run(), nil
}
