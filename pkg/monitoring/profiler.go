/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: profiler.go
Description: CPU and heap profiling around a block of inference work. Profiles are written
to an output directory as pprof files named after the profiled operation.
*/

package monitoring

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ProfilerType represents the type of profiling
type ProfilerType string

const (
	ProfilerTypeCPU    ProfilerType = "cpu"
	ProfilerTypeMemory ProfilerType = "memory"
)

// ProfileResult describes one written profile
type ProfileResult struct {
	Type       ProfilerType  `json:"type"`
	StartTime  time.Time     `json:"start_time"`
	Duration   time.Duration `json:"duration"`
	OutputFile string        `json:"output_file"`
}

// Profiler writes pprof profiles for a named operation
type Profiler struct {
	outputDir string
	logger    *logrus.Logger

	mu      sync.Mutex
	running bool
	name    string
	cpuFile *os.File
	start   time.Time
}

// NewProfiler creates a profiler writing into outputDir
func NewProfiler(outputDir string, logger *logrus.Logger) *Profiler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Profiler{outputDir: outputDir, logger: logger}
}

// Start begins CPU profiling for the named operation
func (p *Profiler) Start(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("profiler already running")
	}
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	p.name = name
	p.start = time.Now()
	file, err := os.Create(p.path(ProfilerTypeCPU))
	if err != nil {
		return fmt.Errorf("failed to create CPU profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}

	p.cpuFile = file
	p.running = true
	p.logger.WithField("operation", name).Debug("CPU profiling started")
	return nil
}

// Stop ends CPU profiling, writes a heap profile and returns both results
func (p *Profiler) Stop() ([]*ProfileResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return nil, fmt.Errorf("profiler not running")
	}
	p.running = false

	pprof.StopCPUProfile()
	elapsed := time.Since(p.start)
	cpu := &ProfileResult{Type: ProfilerTypeCPU, StartTime: p.start, Duration: elapsed, OutputFile: p.cpuFile.Name()}
	if err := p.cpuFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close CPU profile: %w", err)
	}

	heapPath := p.path(ProfilerTypeMemory)
	file, err := os.Create(heapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory profile file: %w", err)
	}
	defer file.Close()
	if err := pprof.WriteHeapProfile(file); err != nil {
		return nil, fmt.Errorf("failed to write memory profile: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"operation": p.name,
		"duration":  elapsed,
		"dir":       p.outputDir,
	}).Info("Profiles written")

	return []*ProfileResult{
		cpu,
		{Type: ProfilerTypeMemory, StartTime: p.start, Duration: elapsed, OutputFile: heapPath},
	}, nil
}

// IsRunning reports whether a profile is in progress
func (p *Profiler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Profiler) path(t ProfilerType) string {
	return filepath.Join(p.outputDir, fmt.Sprintf("%s_%s_%d.prof", p.name, t, p.start.Unix()))
}
