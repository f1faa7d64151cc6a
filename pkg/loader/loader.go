/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: loader.go
Description: Input loading for schema inference. Reads samples and schema fragments from
local files, standard input or HTTP(S) endpoints and decodes them into documents.
*/

package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kleascm/genschema/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// StdinLocation reads from standard input
const StdinLocation = "-"

// Source names one input
type Source struct {
	Location string // file path, "-" or http(s) URL
	Kind     interfaces.Kind
	Format   Format
}

// Document is one decoded value ready for the registry
type Document struct {
	Origin  string
	Kind    interfaces.Kind
	Content interface{}
}

// Loader fetches and decodes sources
type Loader struct {
	Timeout time.Duration
	Stdin   io.Reader
	client  *http.Client
	logger  *logrus.Logger
}

// NewLoader creates a loader with a per-request timeout for remote sources
func NewLoader(timeout time.Duration, logger *logrus.Logger) *Loader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Loader{
		Timeout: timeout,
		Stdin:   os.Stdin,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Samples wraps locations as sample sources
func Samples(locations ...string) []Source {
	return sources(interfaces.KindSample, locations)
}

// Schemas wraps locations as schema sources
func Schemas(locations ...string) []Source {
	return sources(interfaces.KindSchema, locations)
}

func sources(kind interfaces.Kind, locations []string) []Source {
	out := make([]Source, 0, len(locations))
	for _, loc := range locations {
		out = append(out, Source{Location: loc, Kind: kind})
	}
	return out
}

// LoadAll loads every source in order
func (l *Loader) LoadAll(ctx context.Context, srcs []Source) ([]Document, error) {
	var docs []Document
	for _, src := range srcs {
		loaded, err := l.Load(ctx, src)
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}
	return docs, nil
}

// Load reads and decodes one source
func (l *Loader) Load(ctx context.Context, src Source) ([]Document, error) {
	data, contentType, err := l.read(ctx, src.Location)
	if err != nil {
		return nil, err
	}

	format := src.Format
	if format == FormatAuto {
		format = DetectFormat(src.Location, contentType, data)
	}

	values, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Location, err)
	}

	l.logger.WithFields(logrus.Fields{
		"source":    src.Location,
		"kind":      src.Kind.String(),
		"format":    string(format),
		"documents": len(values),
	}).Debug("Loaded input")

	docs := make([]Document, 0, len(values))
	for i, v := range values {
		origin := src.Location
		if len(values) > 1 {
			origin = fmt.Sprintf("%s#%d", src.Location, i)
		}
		docs = append(docs, Document{Origin: origin, Kind: src.Kind, Content: v})
	}
	return docs, nil
}

// read returns the raw bytes of a location and the content type when known
func (l *Loader) read(ctx context.Context, location string) ([]byte, string, error) {
	switch {
	case location == StdinLocation:
		data, err := io.ReadAll(l.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, "", nil
	case strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://"):
		return l.fetch(ctx, location)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read input file: %w", err)
	}
	return data, "", nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
