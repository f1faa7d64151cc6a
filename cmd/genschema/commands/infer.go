/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: infer.go
Description: Schema inference command. Loads samples and schema fragments, runs the engine
and writes the merged schema in the configured output format.
*/

package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/kleascm/genschema/pkg/loader"
	"github.com/kleascm/genschema/pkg/monitoring"
	"github.com/kleascm/genschema/pkg/output"
	"github.com/spf13/cobra"
)

// RunInfer infers one schema from every input
func RunInfer(cmd *cobra.Command, args []string) error {
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
	outPath, _ := cmd.Flags().GetString("output")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	samples := args
	if len(samples) == 0 && len(schemas) == 0 {
		samples = []string{loader.StdinLocation}
	}

	docs, err := loadDocuments(cmd.Context(), cfg, logger, samples, schemas)
	if err != nil {
		return err
	}

	reporters := monitoring.MultiReporter{monitoring.NewLoggerReporter(logger.GetLogger())}
	var prom *monitoring.PrometheusReporter
	if metricsFile != "" {
		prom = monitoring.NewPrometheusReporter()
		reporters = append(reporters, prom)
	}

	engine, err := buildEngine(cfg, logger, reporters, docs)
	if err != nil {
		return err
	}

	start := time.Now()
	node, err := engine.RunContext(cmd.Context())
	if err != nil {
		return fmt.Errorf("inference failed: %w", err)
	}
	elapsed := time.Since(start)

	format, err := output.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return err
	}
	if err := output.WriteFile(outPath, node, format); err != nil {
		return err
	}

	schemaCount, sampleCount := engine.Registry().Counts()
	logger.LogRun(schemaCount, sampleCount, elapsed, map[string]interface{}{"output": outPath})
	status("🧬 Schema generated from %d instances (%d schema fragments) in %v", countSamples(docs), len(docs)-countSamples(docs), elapsed.Round(time.Microsecond))

	if prom != nil {
		if err := writeMetrics(metricsFile, prom); err != nil {
			return err
		}
		status("📊 Metrics written to %s", metricsFile)
	}
	return nil
}

func writeMetrics(path string, prom *monitoring.PrometheusReporter) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer f.Close()
	return prom.WriteText(f)
}
