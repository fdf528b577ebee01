package metrics

import (
	"time"
)

// RecordPropagationEvent records one diffusion event of the given kind
// ("root" or "infect").
func (r *Registry) RecordPropagationEvent(kind string) {
	r.PropagationEventsTotal.WithLabelValues(kind).Inc()
}

// RecordSimulation records one finished diffusion simulation for an item
func (r *Registry) RecordSimulation(infectedNodes int, duration time.Duration) {
	r.PropagationInfectedNodes.Observe(float64(infectedNodes))
	r.PropagationSimulationDuration.Observe(duration.Seconds())
}

// RecordReplay records one event replay run
func (r *Registry) RecordReplay() {
	r.PropagationReplaysTotal.Inc()
}

// RecordSnapshot records one written engine snapshot
func (r *Registry) RecordSnapshot(sizeBytes int) {
	r.PropagationSnapshotBytes.Observe(float64(sizeBytes))
}

// SetExampleCount updates the container example gauge
func (r *Registry) SetExampleCount(n int) {
	r.DatasetExamplesTotal.Set(float64(n))
}

// RecordShardWritten records one written shard file
func (r *Registry) RecordShardWritten(sizeBytes int) {
	r.DatasetShardsWrittenTotal.Inc()
	r.DatasetShardBytes.Observe(float64(sizeBytes))
}

// RecordLoadFailure records one shard file that failed to load
func (r *Registry) RecordLoadFailure() {
	r.DatasetLoadFailuresTotal.Inc()
}

// RecordBatch records one produced batch for the given split ("train",
// "test" or "all").
func (r *Registry) RecordBatch(split string) {
	r.DatasetBatchesTotal.WithLabelValues(split).Inc()
}
