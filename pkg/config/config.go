/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config.go
Description: Configuration structures and helpers for genschema. Values come from defaults,
an optional config file, GENSCHEMA_* environment variables and CLI flags through viper, and
are turned into a ready-to-run inference engine.
*/

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kleascm/genschema/pkg/comparators"
	"github.com/kleascm/genschema/pkg/inference"
	"github.com/kleascm/genschema/pkg/interfaces"
	"github.com/kleascm/genschema/pkg/logging"
	"github.com/kleascm/genschema/pkg/output"
	"github.com/kleascm/genschema/pkg/pseudoarray"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by genschema
const EnvPrefix = "GENSCHEMA"

// Config holds every tunable of the CLI and the HTTP service
type Config struct {
	UnionKeyword      string       `mapstructure:"union_keyword" json:"union_keyword"`
	PseudoArrays      bool         `mapstructure:"pseudo_arrays" json:"pseudo_arrays"`
	PseudoArrayPolicy string       `mapstructure:"pseudo_policy" json:"pseudo_policy"`
	Comparators       []string     `mapstructure:"comparators" json:"comparators"`
	KeepMarkers       bool         `mapstructure:"keep_markers" json:"keep_markers"`
	OutputFormat      string       `mapstructure:"output_format" json:"output_format"`
	Parallelism       int          `mapstructure:"parallelism" json:"parallelism"`
	Timeout           string       `mapstructure:"timeout" json:"timeout"` // remote inputs, e.g. "10s"
	Log               LogConfig    `mapstructure:"log" json:"log"`
	Server            ServerConfig `mapstructure:"server" json:"server"`
	Bench             BenchConfig  `mapstructure:"bench" json:"bench"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
	Dir    string `mapstructure:"dir" json:"dir"`
}

// ServerConfig configures the HTTP inference service
type ServerConfig struct {
	Addr         string `mapstructure:"addr" json:"addr"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" json:"max_body_bytes"`
}

// BenchConfig configures the benchmark harness
type BenchConfig struct {
	Runs       int    `mapstructure:"runs" json:"runs"`
	MetricsDir string `mapstructure:"metrics_dir" json:"metrics_dir"`
}

// DefaultConfig returns a sensible default config
func DefaultConfig() *Config {
	return &Config{
		UnionKeyword:      string(inference.AnyOf),
		PseudoArrays:      true,
		PseudoArrayPolicy: string(pseudoarray.PolicyContiguous),
		Comparators:       comparators.DefaultNames(),
		OutputFormat:      string(output.FormatJSON),
		Parallelism:       1,
		Timeout:           "10s",
		Log:               LogConfig{Level: "info", Format: "custom"},
		Server:            ServerConfig{Addr: ":8080", MaxBodyBytes: 10 << 20},
		Bench:             BenchConfig{Runs: 200, MetricsDir: "metrics"},
	}
}

// SetDefaults registers the default values on v
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("union_keyword", d.UnionKeyword)
	v.SetDefault("pseudo_arrays", d.PseudoArrays)
	v.SetDefault("pseudo_policy", d.PseudoArrayPolicy)
	v.SetDefault("comparators", d.Comparators)
	v.SetDefault("keep_markers", d.KeepMarkers)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("parallelism", d.Parallelism)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.dir", d.Log.Dir)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("bench.runs", d.Bench.Runs)
	v.SetDefault("bench.metrics_dir", d.Bench.MetricsDir)
}

// Load reads an optional config file and the environment into a validated Config
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the Config for invalid values
func (c *Config) Validate() error {
	if _, err := inference.ParseUnionKeyword(c.UnionKeyword); err != nil {
		return err
	}
	if _, err := pseudoarray.New(pseudoarray.Policy(c.PseudoArrayPolicy)); err != nil {
		return err
	}
	if _, err := comparators.Build(c.Comparators); err != nil {
		return err
	}
	if _, err := output.ParseFormat(c.OutputFormat); err != nil {
		return err
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}
	if c.Server.MaxBodyBytes < 1 {
		return fmt.Errorf("server max_body_bytes must be at least 1, got %d", c.Server.MaxBodyBytes)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if c.Bench.Runs < 1 {
		return fmt.Errorf("bench runs must be at least 1, got %d", c.Bench.Runs)
	}
	return nil
}

// ParseTimeout parses the timeout string into a time.Duration
func (c *Config) ParseTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// LoggerConfig converts the log section for pkg/logging
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	cfg := logging.DefaultLoggerConfig()
	cfg.Level = logging.ParseLevel(c.Log.Level)
	cfg.Format = logging.LogFormat(c.Log.Format)
	cfg.OutputDir = c.Log.Dir
	return cfg
}

// EngineConfig converts the inference settings for pkg/inference
func (c *Config) EngineConfig(logger *logrus.Logger, reporter interfaces.Reporter) (*inference.EngineConfig, error) {
	keyword, err := inference.ParseUnionKeyword(c.UnionKeyword)
	if err != nil {
		return nil, err
	}
	cfg := inference.DefaultEngineConfig()
	cfg.UnionKeyword = keyword
	cfg.Parallelism = c.Parallelism
	cfg.Reporter = reporter
	if logger != nil {
		cfg.Logger = logger
	}
	cfg.PseudoArrays = nil
	if c.PseudoArrays {
		classifier, err := pseudoarray.New(pseudoarray.Policy(c.PseudoArrayPolicy))
		if err != nil {
			return nil, err
		}
		cfg.PseudoArrays = classifier
	}
	return cfg, nil
}

// BuildEngine creates an engine with the configured rules, followed by the cleanup rules
// unless markers are kept
func (c *Config) BuildEngine(logger *logrus.Logger, reporter interfaces.Reporter) (*inference.Engine, error) {
	engineConfig, err := c.EngineConfig(logger, reporter)
	if err != nil {
		return nil, err
	}
	engine, err := inference.NewEngine(engineConfig)
	if err != nil {
		return nil, err
	}

	set, err := comparators.Build(c.Comparators)
	if err != nil {
		return nil, err
	}
	rules := set.All()
	if !c.KeepMarkers {
		rules = append(rules, comparators.CleanupComparators(engineConfig.PseudoArrays != nil)...)
	}
	for _, r := range rules {
		if err := engine.Register(r); err != nil {
			return nil, err
		}
	}
	return engine, nil
}
