/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: handlers.go
Description: Request handlers of the inference service.
*/

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kleascm/genschema/pkg/comparators"
	"github.com/kleascm/genschema/pkg/config"
	"github.com/kleascm/genschema/pkg/loader"
	"github.com/kleascm/genschema/pkg/output"
)

// Options overrides the server configuration for one request
type Options struct {
	UnionKeyword      string   `json:"union_keyword,omitempty"`
	PseudoArrays      *bool    `json:"pseudo_arrays,omitempty"`
	PseudoArrayPolicy string   `json:"pseudo_policy,omitempty"`
	Comparators       []string `json:"comparators,omitempty"`
	KeepMarkers       *bool    `json:"keep_markers,omitempty"`
	OutputFormat      string   `json:"output_format,omitempty"`
}

// InferRequest is the body of POST /v1/infer
type InferRequest struct {
	Samples []json.RawMessage `json:"samples"`
	Schemas []json.RawMessage `json:"schemas"`
	Options *Options          `json:"options,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var errNoResources = errors.New("request carries no samples or schemas")

// apply returns a copy of base with the overrides applied
func (o *Options) apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	if o != nil {
		if o.UnionKeyword != "" {
			cfg.UnionKeyword = o.UnionKeyword
		}
		if o.PseudoArrays != nil {
			cfg.PseudoArrays = *o.PseudoArrays
		}
		if o.PseudoArrayPolicy != "" {
			cfg.PseudoArrayPolicy = o.PseudoArrayPolicy
		}
		if o.Comparators != nil {
			cfg.Comparators = o.Comparators
		}
		if o.KeepMarkers != nil {
			cfg.KeepMarkers = *o.KeepMarkers
		}
		if o.OutputFormat != "" {
			cfg.OutputFormat = o.OutputFormat
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Server) handleInfer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.Server.MaxBodyBytes)
		var req InferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
		if len(req.Samples)+len(req.Schemas) == 0 {
			writeError(w, http.StatusBadRequest, errNoResources)
			return
		}

		cfg, err := req.Options.apply(s.config)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		engine, err := cfg.BuildEngine(s.logger.GetLogger(), s.reporter)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		for i, raw := range req.Schemas {
			v, err := loader.ParseJSON(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("schema %d: %w", i, err))
				return
			}
			engine.AddSchema(v)
		}
		for i, raw := range req.Samples {
			v, err := loader.ParseJSON(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("sample %d: %w", i, err))
				return
			}
			engine.AddSample(v)
		}

		start := time.Now()
		node, err := engine.RunContext(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		s.logger.LogRun(len(req.Schemas), len(req.Samples), time.Since(start), map[string]interface{}{"source": "http"})

		format, _ := output.ParseFormat(cfg.OutputFormat)
		body, err := output.Marshal(node, format)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		w.Header().Set("Content-Type", contentType(format))
		w.Header().Set("X-Genschema-Instances", strconv.Itoa(len(req.Samples)))
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}

func (s *Server) handleComparators() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, comparators.Catalog())
	}
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func contentType(format output.Format) string {
	if format == output.FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
