// Package metrics exposes Prometheus metrics for dataset generation runs.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Propagation Metrics
	PropagationEventsTotal        *prometheus.CounterVec
	PropagationInfectedNodes      prometheus.Histogram
	PropagationSimulationDuration prometheus.Histogram
	PropagationReplaysTotal       prometheus.Counter
	PropagationSnapshotBytes      prometheus.Histogram

	// Dataset Metrics
	DatasetExamplesTotal      prometheus.Gauge
	DatasetShardsWrittenTotal prometheus.Counter
	DatasetShardBytes         prometheus.Histogram
	DatasetLoadFailuresTotal  prometheus.Counter
	DatasetBatchesTotal       *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initPropagationMetrics()
	r.initDatasetMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
