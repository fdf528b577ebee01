package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, families []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

func TestNewRegistryInitializesAllMetrics(t *testing.T) {
	r := NewRegistry()

	require.NotNil(t, r.PropagationEventsTotal)
	require.NotNil(t, r.PropagationInfectedNodes)
	require.NotNil(t, r.PropagationSimulationDuration)
	require.NotNil(t, r.PropagationReplaysTotal)
	require.NotNil(t, r.PropagationSnapshotBytes)
	require.NotNil(t, r.DatasetExamplesTotal)
	require.NotNil(t, r.DatasetShardsWrittenTotal)
	require.NotNil(t, r.DatasetShardBytes)
	require.NotNil(t, r.DatasetLoadFailuresTotal)
	require.NotNil(t, r.DatasetBatchesTotal)
	require.NotNil(t, r.GetPrometheusRegistry())
}

func TestRecordPropagation(t *testing.T) {
	r := NewRegistry()

	r.RecordPropagationEvent("root")
	r.RecordPropagationEvent("infect")
	r.RecordPropagationEvent("infect")
	r.RecordSimulation(5, 20*time.Millisecond)
	r.RecordReplay()

	families, err := r.GetPrometheusRegistry().Gather()
	require.NoError(t, err)

	events := findFamily(t, families, "propy_propagation_events_total")
	total := 0.0
	for _, m := range events.GetMetric() {
		total += m.GetCounter().GetValue()
	}
	assert.Equal(t, 3.0, total)

	infected := findFamily(t, families, "propy_propagation_infected_nodes")
	assert.Equal(t, uint64(1), infected.GetMetric()[0].GetHistogram().GetSampleCount())

	replays := findFamily(t, families, "propy_propagation_replays_total")
	assert.Equal(t, 1.0, replays.GetMetric()[0].GetCounter().GetValue())
}

func TestRecordDataset(t *testing.T) {
	r := NewRegistry()

	r.SetExampleCount(42)
	r.RecordShardWritten(2048)
	r.RecordShardWritten(4096)
	r.RecordLoadFailure()
	r.RecordBatch("train")
	r.RecordBatch("train")
	r.RecordBatch("test")

	families, err := r.GetPrometheusRegistry().Gather()
	require.NoError(t, err)

	examples := findFamily(t, families, "propy_dataset_examples_total")
	assert.Equal(t, 42.0, examples.GetMetric()[0].GetGauge().GetValue())

	shards := findFamily(t, families, "propy_dataset_shards_written_total")
	assert.Equal(t, 2.0, shards.GetMetric()[0].GetCounter().GetValue())

	batches := findFamily(t, families, "propy_dataset_batches_total")
	byLabel := map[string]float64{}
	for _, m := range batches.GetMetric() {
		byLabel[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, byLabel["train"])
	assert.Equal(t, 1.0, byLabel["test"])
}

func TestDefaultRegistryIsSingleton(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}
