/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for genschema. Provides the infer, bench, digest,
compare-digests, serve and list-comparators commands with configuration from flags,
GENSCHEMA_* environment variables and an optional config file.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/genschema/cmd/genschema/commands"
	"github.com/kleascm/genschema/pkg/comparators"
	"github.com/kleascm/genschema/pkg/config"
	"github.com/kleascm/genschema/pkg/digest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	defaults := config.DefaultConfig()

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "genschema",
		Short: "genschema - JSON Schema inference from samples and schema fragments",
		Long: `genschema merges JSON samples and existing schema fragments into a single JSON
Schema. Conflicting types become anyOf/oneOf/allOf alternatives, integer-keyed objects
are recognized as arrays in disguise, and pluggable comparators add formats, required
properties and size bounds.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	rootCmd.PersistentFlags().String("config", "", "Configuration file path")
	rootCmd.PersistentFlags().String("log-level", defaults.Log.Level, "Logging level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", defaults.Log.Format, "Log format (text, json, custom)")
	rootCmd.PersistentFlags().String("log-dir", defaults.Log.Dir, "Also write logs to a timestamped file in this directory")

	// Add inference flags
	rootCmd.PersistentFlags().String("base-of", defaults.UnionKeyword, "Keyword for type alternatives (anyOf, oneOf, allOf)")
	rootCmd.PersistentFlags().Bool("no-pseudo-array", false, "Treat integer-keyed objects as plain objects")
	rootCmd.PersistentFlags().String("pseudo-policy", defaults.PseudoArrayPolicy, "Pseudo-array policy (contiguous, lenient, disabled)")
	rootCmd.PersistentFlags().StringSlice("comparators", defaults.Comparators, "Comparators to run, in order")
	rootCmd.PersistentFlags().Bool("keep-markers", false, "Keep elementTrigger and isPseudoArray in the output")
	rootCmd.PersistentFlags().String("output-format", defaults.OutputFormat, "Output format (json, yaml, openapi)")
	rootCmd.PersistentFlags().Int("parallelism", defaults.Parallelism, "Sibling positions inferred concurrently")
	rootCmd.PersistentFlags().String("timeout", defaults.Timeout, "Timeout for remote inputs")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log.dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("union_keyword", rootCmd.PersistentFlags().Lookup("base-of"))
	viper.BindPFlag("pseudo_policy", rootCmd.PersistentFlags().Lookup("pseudo-policy"))
	viper.BindPFlag("comparators", rootCmd.PersistentFlags().Lookup("comparators"))
	viper.BindPFlag("keep_markers", rootCmd.PersistentFlags().Lookup("keep-markers"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output-format"))
	viper.BindPFlag("parallelism", rootCmd.PersistentFlags().Lookup("parallelism"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	// Add infer command
	inferCmd := &cobra.Command{
		Use:   "infer [inputs...]",
		Short: "Infer a JSON Schema from samples",
		Long: `Infer one JSON Schema from every sample input and schema fragment. Inputs are
files, http(s) URLs or "-" for stdin, in JSON, JSON Lines, YAML or HTML with embedded
JSON script blocks. Without inputs, samples are read from stdin.`,
		RunE: commands.RunInfer,
	}
	inferCmd.Flags().StringArray("schema", []string{}, "Schema fragment to merge (repeatable)")
	inferCmd.Flags().StringP("output", "o", "-", "Output file, - for stdout")
	inferCmd.Flags().String("metrics-file", "", "Write Prometheus metrics of the run to this file")
	rootCmd.AddCommand(inferCmd)

	// Add bench command
	benchCmd := &cobra.Command{
		Use:   "bench [inputs...]",
		Short: "Benchmark schema inference",
		Long: `Run inference over the same inputs repeatedly and report mean, min and max run
times together with allocation statistics. The result is saved under the metrics directory.`,
		RunE: commands.RunBench,
	}
	benchCmd.Flags().StringArray("schema", []string{}, "Schema fragment to merge (repeatable)")
	benchCmd.Flags().Int("runs", defaults.Bench.Runs, "Number of runs")
	benchCmd.Flags().String("metrics-dir", defaults.Bench.MetricsDir, "Directory for benchmark results")
	benchCmd.Flags().String("profile-dir", "", "Write CPU and heap profiles to this directory")
	viper.BindPFlag("bench.runs", benchCmd.Flags().Lookup("runs"))
	viper.BindPFlag("bench.metrics_dir", benchCmd.Flags().Lookup("metrics-dir"))
	rootCmd.AddCommand(benchCmd)

	// Add digest commands
	digestCmd := &cobra.Command{
		Use:   "digest <dataset>...",
		Short: "Record the schema digest of each dataset",
		Long: `Infer one schema per dataset and write the SHA-256 digest of each schema, keyed by
dataset name. Comparing digest files across builds detects nondeterministic output.`,
		RunE: commands.RunDigest,
	}
	digestCmd.Flags().StringP("output", "o", digest.FileName, "Digest file")
	rootCmd.AddCommand(digestCmd)

	compareCmd := &cobra.Command{
		Use:   "compare-digests",
		Short: "Compare digest files across build artifacts",
		Long: `Read <artifacts-dir>/<artifact>/matrix-results/` + digest.FileName + ` for every
artifact directory with the given prefix and fail when any digest differs.`,
		RunE: commands.RunCompareDigests,
	}
	compareCmd.Flags().String("artifacts-dir", ".", "Directory holding one subdirectory per artifact")
	compareCmd.Flags().String("artifact-prefix", "", "Only compare artifacts whose name has this prefix")
	rootCmd.AddCommand(compareCmd)

	// Add serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve schema inference over HTTP",
		Long: `Start the HTTP inference service: POST /v1/infer, GET /v1/comparators, GET /healthz
and GET /metrics.`,
		RunE: commands.RunServe,
	}
	serveCmd.Flags().String("addr", defaults.Server.Addr, "Listen address")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)

	// Add list-comparators command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list-comparators",
		Short: "List available comparators",
		Long: fmt.Sprintf(`List every comparator with its description. Defaults: %v.`,
			comparators.DefaultNames()),
		Run: commands.ListComparators,
	})

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
