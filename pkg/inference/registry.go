/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: registry.go
Description: Resource registry. Assigns stable ids to top-level schemas and samples in
registration order and hands the engine its root processing context.
*/

package inference

import (
	"strconv"
	"sync"

	"github.com/kleascm/genschema/pkg/interfaces"
)

// Registry holds the top-level resources of one inference run
type Registry struct {
	mu      sync.Mutex
	schemas []*interfaces.Resource
	samples []*interfaces.Resource
	next    int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// AddSchema registers a schema fragment and returns its resource
func (r *Registry) AddSchema(content interface{}) *interfaces.Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := interfaces.NewSchemaResource(r.nextID(), content)
	r.schemas = append(r.schemas, res)
	return res
}

// AddSample registers a JSON sample and returns its resource
func (r *Registry) AddSample(content interface{}) *interfaces.Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := interfaces.NewSampleResource(r.nextID(), content)
	r.samples = append(r.samples, res)
	return res
}

func (r *Registry) nextID() string {
	id := strconv.Itoa(r.next)
	r.next++
	return id
}

// Context returns the root processing context
func (r *Registry) Context() interfaces.ProcessingContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	return interfaces.NewContext(
		append([]*interfaces.Resource(nil), r.schemas...),
		append([]*interfaces.Resource(nil), r.samples...),
	)
}

// Counts returns the number of registered schemas and samples
func (r *Registry) Counts() (schemas int, samples int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.schemas), len(r.samples)
}

// Reset drops every resource and restarts the id counter
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas, r.samples, r.next = nil, nil, 0
}
