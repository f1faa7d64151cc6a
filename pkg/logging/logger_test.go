/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger_test.go
Description: Tests for logger configuration, output formats and log files.
*/

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerConfigValidate(t *testing.T) {
	cfg := DefaultLoggerConfig()
	require.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Format = "xml"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Level = "loud"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.OutputDir = t.TempDir()
	bad.MaxFiles = 0
	assert.Error(t, bad.Validate())
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLoggerTo(&LoggerConfig{Level: LogLevelDebug, Format: LogFormatJSON, Timestamp: true}, &buf)
	require.NoError(t, err)

	l.LogRun(1, 2, 3*time.Millisecond, map[string]interface{}{"output": "schema.json"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Schema inferred", entry["msg"])
	assert.Equal(t, float64(2), entry["samples"])
	assert.Equal(t, "schema.json", entry["output"])
}

func TestCustomFormatter(t *testing.T) {
	f := &CustomFormatter{}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Level:   logrus.WarnLevel,
		Message: "hello",
		Data:    logrus.Fields{"b": "two words", "a": 1, "err": errors.New("boom")},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "WARNING hello a=1 b=\"two words\" err=\"boom\"\n", string(out))
}

func TestLogFileAndPruning(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"genschema_2000-01-01_00-00-00.000.log", "genschema_2000-01-02_00-00-00.000.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	var console bytes.Buffer
	l, err := NewLoggerTo(&LoggerConfig{Level: LogLevelInfo, Format: LogFormatText, OutputDir: dir, MaxFiles: 2}, &console)
	require.NoError(t, err)

	l.LogRequest("POST", "/v1/infer", 200, time.Millisecond)
	path := l.LogFile()
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Request served")
	assert.Contains(t, console.String(), "Request served")

	matches, err := filepath.Glob(filepath.Join(dir, "genschema_*.log"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	assert.NoFileExists(t, filepath.Join(dir, "genschema_2000-01-01_00-00-00.000.log"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelWarning, ParseLevel("WARNING"))
	assert.Equal(t, LogLevelDebug, ParseLevel(" debug "))
}
