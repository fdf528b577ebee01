package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDatasetMetrics() {
	r.DatasetExamplesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "propy_dataset_examples_total",
			Help: "Number of examples currently held by the container",
		},
	)

	r.DatasetShardsWrittenTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "propy_dataset_shards_written_total",
			Help: "Total number of shard files written",
		},
	)

	r.DatasetShardBytes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "propy_dataset_shard_bytes",
			Help:    "Compressed shard file size in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)

	r.DatasetLoadFailuresTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "propy_dataset_load_failures_total",
			Help: "Total number of shard files that failed to load",
		},
	)

	r.DatasetBatchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "propy_dataset_batches_total",
			Help: "Total number of batches produced",
		},
		[]string{"split"},
	)
}
