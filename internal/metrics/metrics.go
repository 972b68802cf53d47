// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exports the gauges of one analysis run in the
// Prometheus textfile-collector format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/traceability-engine/pkg/types"
)

const namespace = "traceability"

// Recorder holds the run gauges on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	requirements    *prometheus.GaugeVec
	statuses        *prometheus.GaugeVec
	coverage        *prometheus.GaugeVec
	scanned         *prometheus.GaugeVec
	failures        prometheus.Gauge
	tests           prometheus.Gauge
	implementations prometheus.Gauge
	duration        prometheus.Gauge
}

// NewRecorder creates and registers the gauges.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requirements: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requirements",
			Help:      "Requirements discovered, by category.",
		}, []string{"category"}),
		statuses: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requirement_status",
			Help:      "Requirements per verification status.",
		}, []string{"status"}),
		coverage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "coverage_percent",
			Help:      "Coverage percentage by kind (verification, implementation, test).",
		}, []string{"kind"}),
		scanned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "artifacts_scanned",
			Help:      "Artifacts read successfully, by kind.",
		}, []string{"kind"}),
		failures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "artifact_failures",
			Help:      "Artifacts skipped because they could not be read.",
		}),
		tests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tests",
			Help:      "Test cases discovered.",
		}),
		implementations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "implementations",
			Help:      "Implementation records discovered.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the analysis run.",
		}),
	}

	r.registry.MustRegister(
		r.requirements, r.statuses, r.coverage, r.scanned,
		r.failures, r.tests, r.implementations, r.duration,
	)
	return r
}

// Registry returns the registry holding the gauges.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe sets every gauge from rep.
func (r *Recorder) Observe(rep *types.Report) {
	st := rep.Statistics

	r.requirements.WithLabelValues(string(types.CategorySafety)).Set(float64(st.SafetyRequirements))
	r.requirements.WithLabelValues(string(types.CategorySecurity)).Set(float64(st.SecurityRequirements))
	for _, s := range types.Statuses {
		r.statuses.WithLabelValues(string(s)).Set(float64(st.ByStatus[s]))
	}

	r.coverage.WithLabelValues("verification").Set(st.VerificationCoverage)
	r.coverage.WithLabelValues("implementation").Set(st.ImplementationCoverage)
	r.coverage.WithLabelValues("test").Set(st.TestCoverage)

	r.scanned.WithLabelValues("doc").Set(float64(rep.Scanned.Docs))
	r.scanned.WithLabelValues("source").Set(float64(rep.Scanned.Sources))
	r.scanned.WithLabelValues("test").Set(float64(rep.Scanned.Tests))
	r.scanned.WithLabelValues("plan").Set(float64(rep.Scanned.Plans))
	r.failures.Set(float64(rep.Scanned.Failed))

	r.tests.Set(float64(st.TotalTests))
	r.implementations.Set(float64(st.TotalImplementations))
	r.duration.Set(rep.Duration.Seconds())
}

// WriteTextfile writes the gauges to path, creating parent directories.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
