package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPropagationMetrics() {
	r.PropagationEventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "propy_propagation_events_total",
			Help: "Total number of propagation events",
		},
		[]string{"kind"},
	)

	r.PropagationInfectedNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "propy_propagation_infected_nodes",
			Help:    "Number of nodes reached per information item",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	r.PropagationSimulationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "propy_propagation_simulation_duration_seconds",
			Help:    "Diffusion simulation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.PropagationReplaysTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "propy_propagation_replays_total",
			Help: "Total number of event replay runs",
		},
	)

	r.PropagationSnapshotBytes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "propy_propagation_snapshot_bytes",
			Help:    "Compressed engine snapshot size in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)
}
