/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config_test.go
Description: Tests for configuration loading, validation and engine construction.
*/

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/genschema/pkg/comparators"
	"github.com/kleascm/genschema/pkg/inference"
	"github.com/kleascm/genschema/pkg/pseudoarray"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10*time.Second, cfg.ParseTimeout())
}

func TestLoadFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genschema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
union_keyword: oneOf
comparators: [format, flag]
log:
  level: debug
server:
  addr: ":9999"
`), 0644))
	t.Setenv("GENSCHEMA_PARALLELISM", "4")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "oneOf", cfg.UnionKeyword)
	assert.Equal(t, []string{"format", "flag"}, cfg.Comparators)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Parallelism)
	assert.True(t, cfg.PseudoArrays)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"union":       func(c *Config) { c.UnionKeyword = "someOf" },
		"policy":      func(c *Config) { c.PseudoArrayPolicy = "sometimes" },
		"comparator":  func(c *Config) { c.Comparators = []string{"type"} },
		"output":      func(c *Config) { c.OutputFormat = "xml" },
		"parallelism": func(c *Config) { c.Parallelism = 0 },
		"max_body":    func(c *Config) { c.Server.MaxBodyBytes = 0 },
		"timeout":     func(c *Config) { c.Timeout = "soon" },
		"bench":       func(c *Config) { c.Bench.Runs = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.UnionKeyword = "someOf"
	assert.ErrorIs(t, cfg.Validate(), inference.ErrInvalidUnionKeyword)
	cfg = DefaultConfig()
	cfg.Comparators = []string{"nope"}
	assert.ErrorIs(t, cfg.Validate(), comparators.ErrUnknownComparator)
}

func TestEngineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PseudoArrayPolicy = string(pseudoarray.PolicyLenient)

	ec, err := cfg.EngineConfig(nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &pseudoarray.LenientClassifier{}, ec.PseudoArrays)

	cfg.PseudoArrays = false
	ec, err = cfg.EngineConfig(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, ec.PseudoArrays)
}

func TestBuildEngine(t *testing.T) {
	cfg := DefaultConfig()
	e, err := cfg.BuildEngine(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"format", "required", "empty", "delete-element", "delete-element"}, e.Comparators())

	e.AddSample(map[string]interface{}{"0": "a", "1": "b"})
	node := e.Run()
	assert.Equal(t, "object", node.Type())
	assert.Contains(t, node, "patternProperties")
	assert.NotContains(t, node, "elementTrigger")
	assert.NotContains(t, node, "isPseudoArray")

	cfg.KeepMarkers = true
	cfg.PseudoArrays = false
	e, err = cfg.BuildEngine(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"format", "required", "empty"}, e.Comparators())
}

func TestLoggerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "warning"
	lc := cfg.LoggerConfig()
	require.NoError(t, lc.Validate())
	assert.EqualValues(t, "warn", lc.Level)
}
