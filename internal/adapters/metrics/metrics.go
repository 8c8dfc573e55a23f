// Package metrics implements the Metrics port with a Prometheus registry
// written to a text file after each build.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Metrics = (*Collector)(nil)

// Collector records action counters per context.
type Collector struct {
	registry *prometheus.Registry

	started  *prometheus.CounterVec
	failed   *prometheus.CounterVec
	cached   *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiln_actions_started_total",
			Help: "Total number of actions that acquired a job slot.",
		}, []string{"context"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiln_actions_failed_total",
			Help: "Total number of actions that failed.",
		}, []string{"context"}),
		cached: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiln_actions_cached_total",
			Help: "Total number of actions skipped by the action cache.",
		}, []string{"context"}),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kiln_actions_in_flight",
			Help: "Number of actions currently holding a job slot.",
		}, []string{"context"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kiln_action_duration_seconds",
			Help:    "Action wall time in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"context"}),
	}

	c.registry.MustRegister(c.started, c.failed, c.cached, c.inFlight, c.duration)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ActionStarted marks an action as holding a job slot.
func (c *Collector) ActionStarted(contextName string) {
	c.started.WithLabelValues(contextName).Inc()
	c.inFlight.WithLabelValues(contextName).Inc()
}

// ActionFinished releases the slot and records the outcome.
func (c *Collector) ActionFinished(contextName string, elapsed time.Duration, err error) {
	c.inFlight.WithLabelValues(contextName).Dec()
	c.duration.WithLabelValues(contextName).Observe(elapsed.Seconds())
	if err != nil {
		c.failed.WithLabelValues(contextName).Inc()
	}
}

// ActionCached records an action skipped by the cache.
func (c *Collector) ActionCached(contextName string) {
	c.cached.WithLabelValues(contextName).Inc()
}

// WriteSnapshot writes the registry in the Prometheus text format.
func (c *Collector) WriteSnapshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create metrics directory"), "path", path)
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	return nil
}
