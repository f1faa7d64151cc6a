/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: memory.go
Description: Memory snapshots for inference runs. A snapshot pair taken around a batch of
runs gives the allocation volume and GC activity the batch caused.
*/

package monitoring

import (
	"runtime"
	"time"
)

// MemorySnapshot represents a memory usage snapshot
type MemorySnapshot struct {
	Timestamp    time.Time `json:"timestamp"`
	HeapAlloc    uint64    `json:"heap_alloc"`
	HeapInuse    uint64    `json:"heap_inuse"`
	HeapObjects  uint64    `json:"heap_objects"`
	TotalAlloc   uint64    `json:"total_alloc"`
	Mallocs      uint64    `json:"mallocs"`
	GoRoutines   int       `json:"go_routines"`
	NumGC        uint32    `json:"num_gc"`
	PauseTotalNs uint64    `json:"pause_total_ns"`
}

// MemoryUsage is the difference between two snapshots
type MemoryUsage struct {
	BytesAllocated uint64        `json:"bytes_allocated"`
	Allocations    uint64        `json:"allocations"`
	GCs            uint32        `json:"gcs"`
	GCPause        time.Duration `json:"gc_pause"`
	PeakHeapInuse  uint64        `json:"peak_heap_inuse"`
}

// TakeMemorySnapshot reads the runtime memory statistics
func TakeMemorySnapshot() *MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &MemorySnapshot{
		Timestamp:    time.Now(),
		HeapAlloc:    m.HeapAlloc,
		HeapInuse:    m.HeapInuse,
		HeapObjects:  m.HeapObjects,
		TotalAlloc:   m.TotalAlloc,
		Mallocs:      m.Mallocs,
		GoRoutines:   runtime.NumGoroutine(),
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}

// Since returns the usage accumulated between before and s
func (s *MemorySnapshot) Since(before *MemorySnapshot) MemoryUsage {
	peak := s.HeapInuse
	if before.HeapInuse > peak {
		peak = before.HeapInuse
	}
	return MemoryUsage{
		BytesAllocated: s.TotalAlloc - before.TotalAlloc,
		Allocations:    s.Mallocs - before.Mallocs,
		GCs:            s.NumGC - before.NumGC,
		GCPause:        time.Duration(s.PauseTotalNs - before.PauseTotalNs),
		PeakHeapInuse:  peak,
	}
}
