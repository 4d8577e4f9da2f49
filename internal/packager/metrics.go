// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// runMetrics are the counters of one run, kept on a private registry so
// repeated runs in one process start from zero.
type runMetrics struct {
	registry *prometheus.Registry
	packages *prometheus.CounterVec
	skipped  prometheus.Counter
	warnings prometheus.Counter
	duration prometheus.Gauge
}

func newRunMetrics() *runMetrics {
	m := &runMetrics{
		registry: prometheus.NewRegistry(),
		packages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "spp",
				Name:      "packages_total",
				Help:      "Packages emitted by format and result.",
			},
			[]string{"format", "result"},
		),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spp",
			Name:      "components_skipped_total",
			Help:      "Components skipped because a required asset was missing.",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spp",
			Name:      "warnings_total",
			Help:      "Warnings raised during the run.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spp",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}
	m.registry.MustRegister(m.packages, m.skipped, m.warnings, m.duration)
	return m
}

// write stores the metrics in node-exporter textfile format.
func (m *runMetrics) write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
