/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: profiler_test.go
Description: Tests for the profiler and memory snapshots.
*/

package monitoring

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilerWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	p := NewProfiler(dir, nil)

	_, err := p.Stop()
	assert.Error(t, err)

	require.NoError(t, p.Start("bench"))
	assert.True(t, p.IsRunning())
	assert.Error(t, p.Start("bench"))

	results, err := p.Stop()
	require.NoError(t, err)
	assert.False(t, p.IsRunning())
	require.Len(t, results, 2)
	assert.Equal(t, ProfilerTypeCPU, results[0].Type)
	assert.Equal(t, ProfilerTypeMemory, results[1].Type)
	for _, r := range results {
		_, err := os.Stat(r.OutputFile)
		assert.NoError(t, err)
		assert.Contains(t, r.OutputFile, "bench_")
	}
}

func TestMemorySnapshotSince(t *testing.T) {
	before := TakeMemorySnapshot()
	buf := make([][]byte, 0, 64)
	for i := 0; i < 64; i++ {
		buf = append(buf, make([]byte, 1024))
	}
	after := TakeMemorySnapshot()
	usage := after.Since(before)

	assert.NotEmpty(t, buf)
	assert.GreaterOrEqual(t, usage.BytesAllocated, uint64(64*1024))
	assert.Greater(t, usage.Allocations, uint64(0))
	assert.GreaterOrEqual(t, usage.PeakHeapInuse, before.HeapInuse)
}
