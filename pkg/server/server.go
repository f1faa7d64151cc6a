/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: server.go
Description: HTTP inference service. Accepts samples and schema fragments in a JSON request,
runs one engine per request with the server configuration plus per-request overrides, and
exposes the comparator catalog, a health check and Prometheus metrics.
*/

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/kleascm/genschema/pkg/config"
	"github.com/kleascm/genschema/pkg/logging"
	"github.com/kleascm/genschema/pkg/monitoring"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/negroni"
)

// Server serves schema inference over HTTP
type Server struct {
	config   *config.Config
	logger   *logging.Logger
	router   *mux.Router
	reporter *monitoring.PrometheusReporter
	requests *prometheus.CounterVec
}

// New creates a server for cfg. A nil logger uses the default logging config.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		var err error
		if logger, err = logging.NewLogger(cfg.LoggerConfig()); err != nil {
			return nil, err
		}
	}

	s := &Server{
		config:   cfg,
		logger:   logger,
		router:   mux.NewRouter().StrictSlash(true),
		reporter: monitoring.NewPrometheusReporter(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "genschema_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
	}
	s.reporter.Registry().MustRegister(s.requests)
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/v1/infer", s.handleInfer()).Methods("POST")
	s.router.HandleFunc("/v1/comparators", s.handleComparators()).Methods("GET")
	s.router.HandleFunc("/healthz", s.handleHealth()).Methods("GET")
	s.router.Handle("/metrics", promhttp.HandlerFor(s.reporter.Registry(), promhttp.HandlerOpts{})).Methods("GET")
	s.router.Use(s.logMiddleware)
}

// logMiddleware records every request with its final status
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := negroni.NewResponseWriter(w)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.requests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		s.logger.LogRequest(r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Reporter returns the metrics reporter shared by all requests
func (s *Server) Reporter() *monitoring.PrometheusReporter {
	return s.reporter
}

// ListenAndServe serves on the configured address until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.GetLogger().WithField("addr", srv.Addr).Info("Inference service listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.GetLogger().Info("Shutting down inference service")
		return srv.Shutdown(shutdownCtx)
	}
}
