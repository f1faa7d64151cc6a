/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the genschema commands. Provides configuration loading,
logging setup, input loading and engine construction used across all command implementations.
*/

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/kleascm/genschema/pkg/config"
	"github.com/kleascm/genschema/pkg/inference"
	"github.com/kleascm/genschema/pkg/interfaces"
	"github.com/kleascm/genschema/pkg/loader"
	"github.com/kleascm/genschema/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from files, environment and flags
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.GetViper()
	if f := cmd.Flags().Lookup("no-pseudo-array"); f != nil && f.Changed {
		v.Set("pseudo_arrays", false)
	}
	cfg, err := config.Load(v, v.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SetupLogging configures the logging system
func SetupLogging(cfg *config.Config) (*logging.Logger, error) {
	logger, err := logging.NewLogger(cfg.LoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// loadDocuments reads schema fragments first, then samples
func loadDocuments(ctx context.Context, cfg *config.Config, logger *logging.Logger, samples, schemas []string) ([]loader.Document, error) {
	l := loader.NewLoader(cfg.ParseTimeout(), logger.GetLogger())
	srcs := append(loader.Schemas(schemas...), loader.Samples(samples...)...)
	docs, err := l.LoadAll(ctx, srcs)
	if err != nil {
		return nil, fmt.Errorf("failed to load inputs: %w", err)
	}
	for _, d := range docs {
		logger.LogInput(d.Origin, d.Kind.String())
	}
	return docs, nil
}

// buildEngine creates a configured engine holding every document
func buildEngine(cfg *config.Config, logger *logging.Logger, reporter interfaces.Reporter, docs []loader.Document) (*inference.Engine, error) {
	engine, err := cfg.BuildEngine(logger.GetLogger(), reporter)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.Kind == interfaces.KindSchema {
			engine.AddSchema(d.Content)
		} else {
			engine.AddSample(d.Content)
		}
	}
	return engine, nil
}

// countSamples returns the number of sample documents
func countSamples(docs []loader.Document) int {
	n := 0
	for _, d := range docs {
		if d.Kind == interfaces.KindSample {
			n++
		}
	}
	return n
}

// status prints a progress line to stderr so stdout stays reserved for results
func status(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
