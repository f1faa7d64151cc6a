/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared interfaces for genschema. Defines the resource model, the processing
context and the rule contracts used across all packages to break import cycles between
the inference engine, the comparators and the pseudo-array classifiers.
*/

package interfaces

import "strings"

// Kind tells whether a resource is a prior schema fragment or a literal JSON sample
type Kind int

const (
	KindSchema Kind = iota
	KindSample
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindSample:
		return "sample"
	default:
		return "unknown"
	}
}

// Resource is one input artifact projected onto a tree position.
// Resources are immutable once created.
type Resource struct {
	ID      string
	Kind    Kind
	Content interface{}
}

// NewSchemaResource creates a schema resource
func NewSchemaResource(id string, content interface{}) *Resource {
	return &Resource{ID: id, Kind: KindSchema, Content: content}
}

// NewSampleResource creates a sample resource
func NewSampleResource(id string, content interface{}) *Resource {
	return &Resource{ID: id, Kind: KindSample, Content: content}
}

// Child projects content found under this resource into a child resource of the same kind.
// The child id is the parent id extended with the given path segments.
func (r *Resource) Child(content interface{}, segments ...string) *Resource {
	id := r.ID
	if len(segments) > 0 {
		id = id + "/" + strings.Join(segments, "/")
	}
	return &Resource{ID: id, Kind: r.Kind, Content: content}
}

// ProcessingContext is the set of resources contributing to one tree position.
// It is a value: every recursive step builds a fresh one.
type ProcessingContext struct {
	Schemas []*Resource
	Samples []*Resource
	// Sealed forbids union branches at or below this position
	Sealed bool
}

// NewContext creates an unsealed context
func NewContext(schemas, samples []*Resource) ProcessingContext {
	return ProcessingContext{Schemas: schemas, Samples: samples}
}

// Len returns the number of resources in the context
func (c ProcessingContext) Len() int {
	return len(c.Schemas) + len(c.Samples)
}

// IsEmpty reports whether no resource contributes to the position
func (c ProcessingContext) IsEmpty() bool {
	return c.Len() == 0
}

// Resources returns schemas followed by samples
func (c ProcessingContext) Resources() []*Resource {
	all := make([]*Resource, 0, c.Len())
	all = append(all, c.Schemas...)
	return append(all, c.Samples...)
}

// IDs returns the ids of all resources, schemas first
func (c ProcessingContext) IDs() []string {
	ids := make([]string, 0, c.Len())
	for _, r := range c.Resources() {
		ids = append(ids, r.ID)
	}
	return ids
}

// Restrict keeps only the resources whose id is listed. An empty list keeps everything.
func (c ProcessingContext) Restrict(ids []string) ProcessingContext {
	if len(ids) == 0 {
		return c
	}
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	filter := func(in []*Resource) []*Resource {
		var out []*Resource
		for _, r := range in {
			if _, ok := keep[r.ID]; ok {
				out = append(out, r)
			}
		}
		return out
	}
	return ProcessingContext{Schemas: filter(c.Schemas), Samples: filter(c.Samples), Sealed: c.Sealed}
}

// Seal returns a copy of the context that forbids further union branches
func (c ProcessingContext) Seal() ProcessingContext {
	c.Sealed = true
	return c
}

// Comparator is an inference rule. CanApply must not mutate anything; Apply returns
// a direct contribution merged into the draft and alternatives appended to the union keyword.
type Comparator interface {
	Name() string
	Description() string
	CanApply(ctx ProcessingContext, env string, node Node) bool
	Apply(ctx ProcessingContext, env string, node Node) (Node, []Node)
}

// CoreComparator marks the mandatory type rule. It runs before every other rule and
// cannot be registered as a secondary one.
type CoreComparator interface {
	Comparator
	Core()
}

// PseudoArrayClassifier decides whether an object's keys make it an array in disguise.
// The pattern describes the keys when the answer is true.
type PseudoArrayClassifier interface {
	Classify(keys []string, ctx ProcessingContext) (bool, string)
}

// FormatDetector labels a string value with a JSON Schema format
type FormatDetector interface {
	Detect(value string) (string, bool)
}

// Reporter receives telemetry from an inference run
type Reporter interface {
	// OnLevel is called when a tree position is finalized
	OnLevel(env string, node Node)
	// OnUnion is called when a position forks into alternatives
	OnUnion(env string, keyword string, branches int)
	// OnComparator is called after a rule applied at a position
	OnComparator(name string, env string, direct bool, alternatives int)
}
