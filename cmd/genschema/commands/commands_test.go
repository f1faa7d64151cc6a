/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: commands_test.go
Description: Tests for the shared command helpers.
*/

package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/genschema/pkg/config"
	"github.com/kleascm/genschema/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetName(t *testing.T) {
	assert.Equal(t, "users", datasetName("data/users.json"))
	assert.Equal(t, "events", datasetName("/tmp/events.jsonl.gz"))
	assert.Equal(t, ".hidden", datasetName(".hidden"))
	assert.Equal(t, "plain", datasetName("plain"))
}

func TestLoadAndBuild(t *testing.T) {
	dir := t.TempDir()
	samplePath := filepath.Join(dir, "samples.jsonl")
	schemaPath := filepath.Join(dir, "base.json")
	require.NoError(t, os.WriteFile(samplePath, []byte("{\"id\": 1}\n{\"id\": 2, \"tag\": \"x\"}\n"), 0644))
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type":"object","properties":{"id":{"type":"integer"}}}`), 0644))

	logger, err := logging.NewLoggerTo(logging.DefaultLoggerConfig(), io.Discard)
	require.NoError(t, err)
	cfg := config.DefaultConfig()
	cfg.Comparators = []string{"required"}

	docs, err := loadDocuments(context.Background(), cfg, logger, []string{samplePath}, []string{schemaPath})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, 2, countSamples(docs))

	engine, err := buildEngine(cfg, logger, nil, docs)
	require.NoError(t, err)
	schemas, samples := engine.Registry().Counts()
	assert.Equal(t, 1, schemas)
	assert.Equal(t, 2, samples)

	node := engine.Run()
	assert.Equal(t, []string{"id"}, node["required"])
}

func TestLoadDocumentsMissingFile(t *testing.T) {
	logger, err := logging.NewLoggerTo(logging.DefaultLoggerConfig(), io.Discard)
	require.NoError(t, err)
	_, err = loadDocuments(context.Background(), config.DefaultConfig(), logger, []string{filepath.Join(t.TempDir(), "nope.json")}, nil)
	assert.Error(t, err)
}
