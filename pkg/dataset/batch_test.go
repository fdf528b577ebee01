package dataset

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoaskit/propy/pkg/codec"
)

func drainIndices(t *testing.T, it *BatchIterator) int {
	t.Helper()
	total := 0
	for {
		batch, ok := it.Next()
		if !ok {
			break
		}
		total += len(batch.Examples)
	}
	return total
}

func TestBatchesAllWithPartialFinalBatch(t *testing.T) {
	c := newTestContainer(t, Config{})
	seedContainer(t, c, 10)

	it, err := c.Batches(BatchOptions{BatchSize: 4})
	require.NoError(t, err)

	var sizes []int
	for {
		batch, ok := it.Next()
		if !ok {
			break
		}
		sizes = append(sizes, len(batch.Examples))
	}
	assert.Equal(t, []int{4, 4, 2}, sizes, "final partial batch must still be yielded")
}

func TestBatchesZeroBatchSizeYieldsEverything(t *testing.T) {
	c := newTestContainer(t, Config{})
	seedContainer(t, c, 7)

	it, err := c.Batches(BatchOptions{})
	require.NoError(t, err)

	batch, ok := it.Next()
	require.True(t, ok)
	assert.Len(t, batch.Examples, 7)

	_, ok = it.Next()
	assert.False(t, ok, "iterator is finite and non-restartable")
}

func TestBatchesShuffleDeterminism(t *testing.T) {
	c := newTestContainer(t, Config{})
	seedContainer(t, c, 20)

	a, err := c.Batches(BatchOptions{Shuffle: true, Seed: 9})
	require.NoError(t, err)
	b, err := c.Batches(BatchOptions{Shuffle: true, Seed: 9})
	require.NoError(t, err)
	other, err := c.Batches(BatchOptions{Shuffle: true, Seed: 10})
	require.NoError(t, err)

	assert.Equal(t, a.Indices(), b.Indices())
	assert.NotEqual(t, a.Indices(), other.Indices())
}

func TestFoldPartitionLaw(t *testing.T) {
	c := newTestContainer(t, Config{})
	seedContainer(t, c, 23)

	// train_ratio 0.8 -> 5 folds
	for fold := 0; fold < 5; fold++ {
		train, err := c.Batches(BatchOptions{
			Shuffle: true, Seed: 3,
			Split: SplitTrain, TrainRatio: 0.8, Fold: fold,
		})
		require.NoError(t, err)
		test, err := c.Batches(BatchOptions{
			Shuffle: true, Seed: 3,
			Split: SplitTest, TrainRatio: 0.8, Fold: fold,
		})
		require.NoError(t, err)

		union := append(train.Indices(), test.Indices()...)
		sort.Ints(union)

		require.Len(t, union, 23, "train and test must cover every example")
		for i, idx := range union {
			assert.Equal(t, i, idx, "no overlap and no omission")
		}
	}
}

func TestFoldOutOfRange(t *testing.T) {
	c := newTestContainer(t, Config{})
	seedContainer(t, c, 10)

	_, err := c.Batches(BatchOptions{Split: SplitTrain, TrainRatio: 0.8, Fold: 5})
	assert.Error(t, err)

	_, err = c.Batches(BatchOptions{Split: SplitTrain, TrainRatio: 1.5, Fold: 0})
	assert.Error(t, err)
}

func TestEmptySelectionSkippedConsistently(t *testing.T) {
	c := newTestContainer(t, Config{})
	seedContainer(t, c, 8)

	// Two more examples with empty selected-node lists
	require.NoError(t, c.UpdateMatricesAndIndices(
		[][]codec.TripleList{{{}, {}}, {{}, {}}},
		[][]int{{}, {}},
	))
	require.NoError(t, c.UpdateYs([][]float64{{0, 0}, {0, 0}}))

	all, err := c.Batches(BatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 8, drainIndices(t, all), "empty-selection examples skipped")

	train, err := c.Batches(BatchOptions{Split: SplitTrain, TrainRatio: 0.8, Fold: 0, Seed: 1, Shuffle: true})
	require.NoError(t, err)
	test, err := c.Batches(BatchOptions{Split: SplitTest, TrainRatio: 0.8, Fold: 0, Seed: 1, Shuffle: true})
	require.NoError(t, err)
	assert.Equal(t, 8, drainIndices(t, train)+drainIndices(t, test),
		"both sides must exclude the same empty examples")
}

func TestKFoldSplitSizes(t *testing.T) {
	folds := kfoldSplit(23, 5, false, 0)

	require.Len(t, folds, 5)
	assert.Len(t, folds[0], 5)
	assert.Len(t, folds[1], 5)
	assert.Len(t, folds[2], 5)
	assert.Len(t, folds[3], 4)
	assert.Len(t, folds[4], 4)

	var all []int
	for _, fold := range folds {
		all = append(all, fold...)
	}
	sort.Ints(all)
	for i, idx := range all {
		assert.Equal(t, i, idx)
	}
}

func TestBatchExamplesDecoded(t *testing.T) {
	c := newTestContainer(t, Config{COORepr: true})
	seedContainer(t, c, 3)

	it, err := c.Batches(BatchOptions{BatchSize: 2})
	require.NoError(t, err)

	batch, ok := it.Next()
	require.True(t, ok)
	require.Len(t, batch.Examples, 2)
	assert.Equal(t, []int{0}, batch.Examples[0].COOs[0].Rows)
	assert.Equal(t, 1, it.Remaining())
}
