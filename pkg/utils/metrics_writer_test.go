/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics_writer_test.go
Description: Tests for the metrics result writer.
*/

package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMetricsResult(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteMetricsResult(dir, "bench", "1.0.0", map[string]int{"runs": 3})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "bench"), filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_bench_v1.0.0.json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]int
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 3, decoded["runs"])
}

func TestWriteMetricsResultUnmarshalable(t *testing.T) {
	_, err := WriteMetricsResult(t.TempDir(), "bench", "1.0.0", make(chan int))
	assert.Error(t, err)
}
