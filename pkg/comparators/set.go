/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: set.go
Description: Ordered comparator chain and the by-name catalog used by the CLI, the
configuration layer and the HTTP service to compose rule sets.
*/

package comparators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kleascm/genschema/pkg/interfaces"
)

var (
	// ErrCoreComparator is returned when the type rule is registered as a secondary rule
	ErrCoreComparator = errors.New("the type comparator is mandatory and cannot be registered")
	// ErrNilComparator is returned when registering a nil rule
	ErrNilComparator = errors.New("comparator is nil")
	// ErrUnknownComparator is returned for a name missing from the catalog
	ErrUnknownComparator = errors.New("unknown comparator")
)

// Set is an ordered chain of comparators. Rules run in registration order.
type Set struct {
	comparators []interfaces.Comparator
}

// NewSet creates a set from the given rules
func NewSet(rules ...interfaces.Comparator) (*Set, error) {
	s := &Set{}
	for _, r := range rules {
		if err := s.Add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a rule to the chain
func (s *Set) Add(c interfaces.Comparator) error {
	if c == nil {
		return ErrNilComparator
	}
	if _, core := c.(interfaces.CoreComparator); core {
		return fmt.Errorf("%w: %s", ErrCoreComparator, c.Name())
	}
	s.comparators = append(s.comparators, c)
	return nil
}

// All returns the rules in order
func (s *Set) All() []interfaces.Comparator {
	return append([]interfaces.Comparator(nil), s.comparators...)
}

// Len returns the number of rules
func (s *Set) Len() int {
	return len(s.comparators)
}

// Names returns the rule names in order
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.comparators))
	for _, c := range s.comparators {
		names = append(names, c.Name())
	}
	return names
}

// Factory builds a fresh rule
type Factory func() interfaces.Comparator

// CatalogEntry describes a rule addressable by name
type CatalogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

var catalogOrder = []string{"format", "required", "empty", "delete-element", "flag", "no-additional-properties"}

var catalog = map[string]Factory{
	"format":                   func() interfaces.Comparator { return NewFormatComparator(nil) },
	"required":                 func() interfaces.Comparator { return NewRequiredComparator() },
	"empty":                    func() interfaces.Comparator { return NewEmptyComparator() },
	"delete-element":           func() interfaces.Comparator { return NewDeleteElementComparator("") },
	"flag":                     func() interfaces.Comparator { return NewFlagComparator() },
	"no-additional-properties": func() interfaces.Comparator { return NewNoAdditionalPropertiesComparator() },
}

// DefaultNames returns the rules enabled when nothing is configured
func DefaultNames() []string {
	return []string{"format", "required", "empty"}
}

// Lookup builds the rule registered under name
func Lookup(name string) (interfaces.Comparator, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "type" {
		return nil, fmt.Errorf("%w: type", ErrCoreComparator)
	}
	factory, ok := catalog[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComparator, name)
	}
	return factory(), nil
}

// Build resolves a list of names into an ordered set
func Build(names []string) (*Set, error) {
	s := &Set{}
	for _, name := range names {
		c, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		if err := s.Add(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Catalog lists every rule addressable by name
func Catalog() []CatalogEntry {
	defaults := make(map[string]bool)
	for _, n := range DefaultNames() {
		defaults[n] = true
	}
	entries := make([]CatalogEntry, 0, len(catalogOrder))
	for _, name := range catalogOrder {
		c := catalog[name]()
		entries = append(entries, CatalogEntry{Name: name, Description: c.Description(), Default: defaults[name]})
	}
	return entries
}
