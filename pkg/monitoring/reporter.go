/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Reporter implementations for inference telemetry. Supports logging, Prometheus
counters on a private registry, and fan-out to several reporters at once.
*/

package monitoring

import (
	"io"

	"github.com/kleascm/genschema/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
)

// LoggerReporter logs inference events at debug level
type LoggerReporter struct {
	logger *logrus.Logger
}

// NewLoggerReporter creates a new LoggerReporter
func NewLoggerReporter(logger *logrus.Logger) *LoggerReporter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LoggerReporter{logger: logger}
}

// OnLevel logs a finalized position
func (r *LoggerReporter) OnLevel(env string, node interfaces.Node) {
	r.logger.WithFields(logrus.Fields{"env": env, "type": positionType(node)}).Debug("Position finalized")
}

// OnUnion logs a forked position
func (r *LoggerReporter) OnUnion(env string, keyword string, branches int) {
	r.logger.WithFields(logrus.Fields{"env": env, "keyword": keyword, "branches": branches}).Debug("Position forked")
}

// OnComparator logs a rule application
func (r *LoggerReporter) OnComparator(name string, env string, direct bool, alternatives int) {
	r.logger.WithFields(logrus.Fields{
		"env":          env,
		"comparator":   name,
		"direct":       direct,
		"alternatives": alternatives,
	}).Debug("Comparator applied")
}

// PrometheusReporter counts inference events on its own registry
type PrometheusReporter struct {
	registry    *prometheus.Registry
	positions   *prometheus.CounterVec
	unions      *prometheus.CounterVec
	branches    prometheus.Histogram
	comparators *prometheus.CounterVec
}

// NewPrometheusReporter creates a reporter and registers its collectors
func NewPrometheusReporter() *PrometheusReporter {
	r := &PrometheusReporter{
		registry: prometheus.NewRegistry(),
		positions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genschema",
			Name:      "positions_total",
			Help:      "Schema positions finalized, by inferred type.",
		}, []string{"type"}),
		unions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genschema",
			Name:      "unions_total",
			Help:      "Positions forked into alternatives, by union keyword.",
		}, []string{"keyword"}),
		branches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "genschema",
			Name:      "union_branches",
			Help:      "Number of alternatives per forked position.",
			Buckets:   prometheus.LinearBuckets(2, 1, 7),
		}),
		comparators: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genschema",
			Name:      "comparator_applications_total",
			Help:      "Rule applications, by comparator and outcome.",
		}, []string{"comparator", "outcome"}),
	}
	r.registry.MustRegister(r.positions, r.unions, r.branches, r.comparators)
	return r
}

// Registry returns the registry holding the reporter's collectors
func (r *PrometheusReporter) Registry() *prometheus.Registry {
	return r.registry
}

// OnLevel counts a finalized position
func (r *PrometheusReporter) OnLevel(_ string, node interfaces.Node) {
	r.positions.WithLabelValues(positionType(node)).Inc()
}

// OnUnion counts a forked position
func (r *PrometheusReporter) OnUnion(_ string, keyword string, branches int) {
	r.unions.WithLabelValues(keyword).Inc()
	r.branches.Observe(float64(branches))
}

// OnComparator counts a rule application
func (r *PrometheusReporter) OnComparator(name string, _ string, direct bool, alternatives int) {
	outcome := "noop"
	switch {
	case alternatives > 0:
		outcome = "fork"
	case direct:
		outcome = "direct"
	}
	r.comparators.WithLabelValues(name, outcome).Inc()
}

// WriteText writes every metric in the Prometheus text exposition format
func (r *PrometheusReporter) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// MultiReporter fans events out to several reporters
type MultiReporter []interfaces.Reporter

// OnLevel implements interfaces.Reporter
func (m MultiReporter) OnLevel(env string, node interfaces.Node) {
	for _, r := range m {
		r.OnLevel(env, node)
	}
}

// OnUnion implements interfaces.Reporter
func (m MultiReporter) OnUnion(env string, keyword string, branches int) {
	for _, r := range m {
		r.OnUnion(env, keyword, branches)
	}
}

// OnComparator implements interfaces.Reporter
func (m MultiReporter) OnComparator(name string, env string, direct bool, alternatives int) {
	for _, r := range m {
		r.OnComparator(name, env, direct, alternatives)
	}
}

// NopReporter discards every event
type NopReporter struct{}

func (NopReporter) OnLevel(string, interfaces.Node)        {}
func (NopReporter) OnUnion(string, string, int)            {}
func (NopReporter) OnComparator(string, string, bool, int) {}

// positionType labels a node by its type, "union" for forked positions and "any" otherwise
func positionType(node interfaces.Node) string {
	if t := node.Type(); t != "" {
		return t
	}
	for _, k := range []string{"anyOf", "oneOf", "allOf"} {
		if _, ok := node[k]; ok {
			return "union"
		}
	}
	return "any"
}
