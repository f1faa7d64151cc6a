/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Logging system for genschema. Wraps logrus with validated configuration,
text/json/custom output formats and optional timestamped log files, plus helpers for the
events the CLI and the HTTP service record.
*/

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelTrace   LogLevel = "trace"
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
)

// LogFormat represents the logging format
type LogFormat string

const (
	LogFormatJSON   LogFormat = "json"
	LogFormatText   LogFormat = "text"
	LogFormatCustom LogFormat = "custom"
)

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	Level     LogLevel  `json:"level"`
	Format    LogFormat `json:"format"`
	OutputDir string    `json:"output_dir"` // empty disables file output
	MaxFiles  int       `json:"max_files"`
	Timestamp bool      `json:"timestamp"`
	Caller    bool      `json:"caller"`
	Colors    bool      `json:"colors"`
}

// DefaultLoggerConfig logs info and above to stderr only
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatCustom,
		MaxFiles:  10,
		Timestamp: true,
		Colors:    true,
	}
}

// Validate checks the LoggerConfig for invalid values
func (c *LoggerConfig) Validate() error {
	if c.OutputDir != "" && c.MaxFiles <= 0 {
		return fmt.Errorf("max_files must be positive when output_dir is set")
	}
	switch c.Format {
	case LogFormatJSON, LogFormatText, LogFormatCustom:
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	if _, err := logrus.ParseLevel(string(c.Level)); err != nil {
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	return nil
}

// Logger owns a logrus logger and its optional log file
type Logger struct {
	config     *LoggerConfig
	logger     *logrus.Logger
	fileHandle *os.File
	startTime  time.Time
}

// NewLogger creates a new logger writing to stderr
func NewLogger(config *LoggerConfig) (*Logger, error) {
	return NewLoggerTo(config, os.Stderr)
}

// NewLoggerTo creates a new logger writing to console, plus a file when OutputDir is set
func NewLoggerTo(config *LoggerConfig, console io.Writer) (*Logger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	l := &Logger{config: config, logger: logrus.New(), startTime: time.Now()}
	level, _ := logrus.ParseLevel(string(config.Level))
	l.logger.SetLevel(level)
	l.logger.SetReportCaller(config.Caller)
	l.logger.SetFormatter(l.formatter())

	out := console
	if config.OutputDir != "" {
		file, err := l.openLogFile()
		if err != nil {
			return nil, err
		}
		l.fileHandle = file
		out = io.MultiWriter(console, file)
	}
	l.logger.SetOutput(out)
	return l, nil
}

func (l *Logger) formatter() logrus.Formatter {
	switch l.config.Format {
	case LogFormatJSON:
		return &logrus.JSONFormatter{
			TimestampFormat:  time.RFC3339Nano,
			DisableTimestamp: !l.config.Timestamp,
		}
	case LogFormatText:
		return &logrus.TextFormatter{
			FullTimestamp:    l.config.Timestamp,
			DisableTimestamp: !l.config.Timestamp,
			DisableColors:    !l.config.Colors,
		}
	default:
		return &CustomFormatter{Timestamp: l.config.Timestamp, Caller: l.config.Caller, Colors: l.config.Colors}
	}
}

// openLogFile creates <OutputDir>/genschema_<timestamp>.log and prunes older files
func (l *Logger) openLogFile() (*os.File, error) {
	if err := os.MkdirAll(l.config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	name := fmt.Sprintf("genschema_%s.log", l.startTime.Format("2006-01-02_15-04-05.000"))
	file, err := os.OpenFile(filepath.Join(l.config.OutputDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if err := pruneLogs(l.config.OutputDir, l.config.MaxFiles); err != nil {
		file.Close()
		return nil, err
	}
	return file, nil
}

// pruneLogs keeps the newest maxFiles log files; names sort chronologically
func pruneLogs(dir string, maxFiles int) error {
	matches, err := filepath.Glob(filepath.Join(dir, "genschema_*.log"))
	if err != nil {
		return err
	}
	sort.Strings(matches)
	for len(matches) > maxFiles {
		if err := os.Remove(matches[0]); err != nil {
			return fmt.Errorf("failed to remove old log file: %w", err)
		}
		matches = matches[1:]
	}
	return nil
}

// Close flushes and closes the log file
func (l *Logger) Close() error {
	if l.fileHandle == nil {
		return nil
	}
	l.logger.SetOutput(io.Discard)
	err := l.fileHandle.Close()
	l.fileHandle = nil
	return err
}

// GetLogger returns the underlying logrus logger
func (l *Logger) GetLogger() *logrus.Logger {
	return l.logger
}

// LogFile returns the path of the current log file, empty without file output
func (l *Logger) LogFile() string {
	if l.fileHandle == nil {
		return ""
	}
	return l.fileHandle.Name()
}

// LogInput records a loaded input document
func (l *Logger) LogInput(origin string, kind string) {
	l.logger.WithFields(logrus.Fields{"origin": origin, "kind": kind}).Debug("Registered input")
}

// LogRun records a finished inference run
func (l *Logger) LogRun(schemas, samples int, duration time.Duration, fields map[string]interface{}) {
	entry := l.logger.WithFields(logrus.Fields{
		"schemas":  schemas,
		"samples":  samples,
		"duration": duration.Round(time.Microsecond).String(),
	})
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Info("Schema inferred")
}

// LogRequest records an HTTP request served by the inference service
func (l *Logger) LogRequest(method, path string, status int, duration time.Duration) {
	entry := l.logger.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   status,
		"duration": duration.String(),
	})
	if status >= 500 {
		entry.Error("Request failed")
		return
	}
	entry.Info("Request served")
}

// ParseLevel accepts "warning" as an alias of "warn"
func ParseLevel(level string) LogLevel {
	l := strings.ToLower(strings.TrimSpace(level))
	if l == "warning" {
		return LogLevelWarning
	}
	return LogLevel(l)
}
