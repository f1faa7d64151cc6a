/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: bench.go
Description: Benchmark harness for schema inference. Builds a fresh engine per run, times the
run, and summarizes the timings together with the memory the batch allocated.
*/

package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kleascm/genschema/pkg/digest"
	"github.com/kleascm/genschema/pkg/inference"
	"github.com/kleascm/genschema/pkg/monitoring"
)

// ErrInvalidRuns is returned when fewer than one run is requested
var ErrInvalidRuns = errors.New("runs must be at least 1")

// BuildFunc creates a ready-to-run engine with its resources registered
type BuildFunc func() (*inference.Engine, error)

// Result summarizes a benchmark
type Result struct {
	Runs      int                    `json:"runs"`
	Resources int                    `json:"resources"`
	Timings   []time.Duration        `json:"timings_ns"`
	Mean      time.Duration          `json:"mean_ns"`
	Min       time.Duration          `json:"min_ns"`
	Max       time.Duration          `json:"max_ns"`
	Total     time.Duration          `json:"total_ns"`
	Digest    string                 `json:"digest"`
	Memory    monitoring.MemoryUsage `json:"memory"`
	Started   time.Time              `json:"started"`
}

// Run builds and runs an engine runs times. Building is not timed.
func Run(ctx context.Context, build BuildFunc, runs int) (*Result, error) {
	if runs < 1 {
		return nil, ErrInvalidRuns
	}

	result := &Result{Runs: runs, Timings: make([]time.Duration, 0, runs), Started: time.Now()}
	before := monitoring.TakeMemorySnapshot()

	for i := 0; i < runs; i++ {
		engine, err := build()
		if err != nil {
			return nil, fmt.Errorf("failed to build engine for run %d: %w", i, err)
		}
		schemas, samples := engine.Registry().Counts()
		result.Resources = schemas + samples

		start := time.Now()
		node, err := engine.RunContext(ctx)
		elapsed := time.Since(start)
		if err != nil {
			return nil, fmt.Errorf("run %d failed: %w", i, err)
		}
		result.Timings = append(result.Timings, elapsed)

		// every run must produce the same schema
		sum, err := digest.Compute(node)
		if err != nil {
			return nil, err
		}
		if result.Digest == "" {
			result.Digest = sum
		} else if sum != result.Digest {
			return nil, fmt.Errorf("run %d produced a different schema: %s != %s", i, sum, result.Digest)
		}
	}

	result.Memory = monitoring.TakeMemorySnapshot().Since(before)
	result.summarize()
	return result, nil
}

func (r *Result) summarize() {
	r.Min, r.Max, r.Total = r.Timings[0], r.Timings[0], 0
	for _, d := range r.Timings {
		r.Total += d
		if d < r.Min {
			r.Min = d
		}
		if d > r.Max {
			r.Max = d
		}
	}
	r.Mean = r.Total / time.Duration(len(r.Timings))
}
