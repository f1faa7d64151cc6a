/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: detector.go
Description: Regex catalog for string format detection. Patterns are tried in registration
order and the first full match labels the value.
*/

package formats

import (
	"fmt"
	"regexp"
	"sync"
)

// Pattern is one named entry of the catalog
type Pattern struct {
	Name string
	Expr *regexp.Regexp
}

// Detector labels strings using an ordered regex catalog.
// It is safe for concurrent use.
type Detector struct {
	mu       sync.RWMutex
	patterns []Pattern
}

// Default catalog, in match order
var defaultPatterns = []struct {
	name string
	expr string
}{
	{"email", `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`},
	{"uuid", `(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`},
	{"date", `^\d{4}-\d{2}-\d{2}$`},
	{"date-time", `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`},
	{"uri", `(?i)^https?://[^\s/$.?#].[^\s]*$`},
	{"ipv4", `^(?:(?:25[0-5]|2[0-4]\d|[01]?\d\d?)\.){3}(?:25[0-5]|2[0-4]\d|[01]?\d\d?)$`},
}

// NewDetector creates an empty detector
func NewDetector() *Detector {
	return &Detector{}
}

// DefaultDetector creates a detector with the built-in catalog
func DefaultDetector() *Detector {
	d := NewDetector()
	for _, p := range defaultPatterns {
		d.patterns = append(d.patterns, Pattern{Name: p.name, Expr: regexp.MustCompile(p.expr)})
	}
	return d
}

// Register appends a pattern to the catalog. Expressions are anchored by the caller.
func (d *Detector) Register(name, expr string) error {
	re, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("invalid pattern for format %s: %w", name, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.patterns = append(d.patterns, Pattern{Name: name, Expr: re})
	return nil
}

// Detect returns the first format whose pattern matches the whole value
func (d *Detector) Detect(value string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.patterns {
		if p.Expr.MatchString(value) {
			return p.Name, true
		}
	}
	return "", false
}

// Names lists the catalog in match order
func (d *Detector) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.patterns))
	for _, p := range d.patterns {
		names = append(names, p.Name)
	}
	return names
}
