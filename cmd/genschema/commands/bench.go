/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: bench.go
Description: Benchmark command. Repeats inference over the same inputs, reports timing
statistics and persists the result to the metrics directory.
*/

package commands

import (
	"fmt"
	"time"

	"github.com/kleascm/genschema/pkg/bench"
	"github.com/kleascm/genschema/pkg/inference"
	"github.com/kleascm/genschema/pkg/loader"
	"github.com/kleascm/genschema/pkg/monitoring"
	"github.com/kleascm/genschema/pkg/utils"
	"github.com/spf13/cobra"
)

// RunBench benchmarks inference over the inputs
func RunBench(cmd *cobra.Command, args []string) error {
	fmt.Println("⏱️  genschema - Inference Benchmark")
	fmt.Println("==================================")
	fmt.Println()

	cfg, err := LoadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := SetupLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	schemas, _ := cmd.Flags().GetStringArray("schema")
	profileDir, _ := cmd.Flags().GetString("profile-dir")

	samples := args
	if len(samples) == 0 && len(schemas) == 0 {
		samples = []string{loader.StdinLocation}
	}
	docs, err := loadDocuments(cmd.Context(), cfg, logger, samples, schemas)
	if err != nil {
		return err
	}

	fmt.Printf("📊 Inputs: %d documents\n", len(docs))
	fmt.Printf("🔁 Runs: %d\n", cfg.Bench.Runs)
	fmt.Println()

	var profiler *monitoring.Profiler
	if profileDir != "" {
		profiler = monitoring.NewProfiler(profileDir, logger.GetLogger())
		if err := profiler.Start("bench"); err != nil {
			return err
		}
	}

	result, err := bench.Run(cmd.Context(), func() (*inference.Engine, error) {
		return buildEngine(cfg, logger, nil, docs)
	}, cfg.Bench.Runs)

	if profiler != nil {
		profiles, stopErr := profiler.Stop()
		if stopErr != nil && err == nil {
			err = stopErr
		}
		for _, p := range profiles {
			fmt.Printf("🔬 %s profile: %s\n", p.Type, p.OutputFile)
		}
	}
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	fmt.Println("📋 Results")
	fmt.Println("==========")
	fmt.Printf("Mean: %v\n", result.Mean.Round(time.Microsecond))
	fmt.Printf("Min:  %v\n", result.Min.Round(time.Microsecond))
	fmt.Printf("Max:  %v\n", result.Max.Round(time.Microsecond))
	fmt.Printf("Allocated: %d bytes in %d allocations, %d GCs\n",
		result.Memory.BytesAllocated, result.Memory.Allocations, result.Memory.GCs)
	fmt.Printf("Schema digest: %s\n", result.Digest)
	fmt.Println()

	path, err := utils.WriteMetricsResult(cfg.Bench.MetricsDir, "bench", cmd.Root().Version, result)
	if err != nil {
		return err
	}
	fmt.Printf("💾 Result written to %s\n", path)
	return nil
}
