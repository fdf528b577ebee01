package dataset

import (
	"fmt"
	"math"
	"math/rand"
)

// Split selects which side of the fold partition a batch iterator draws
// from.
type Split int

const (
	// SplitAll iterates every example without fold partitioning.
	SplitAll Split = iota
	// SplitTrain iterates the train side of the requested fold.
	SplitTrain
	// SplitTest iterates the test side of the requested fold.
	SplitTest
)

func (s Split) String() string {
	switch s {
	case SplitTrain:
		return "train"
	case SplitTest:
		return "test"
	default:
		return "all"
	}
}

// BatchOptions controls batch generation.
type BatchOptions struct {
	// BatchSize is the number of examples per batch. Zero or negative
	// yields a single batch holding everything.
	BatchSize int

	// Shuffle permutes the iteration order (and seeds the fold split)
	// deterministically from Seed.
	Shuffle bool
	Seed    int64

	// Split selects all examples or one side of a k-fold partition with
	// round(1/(1-TrainRatio)) folds.
	Split      Split
	TrainRatio float64
	Fold       int
}

// Batch is one batch of decoded examples.
type Batch struct {
	Examples []Example
}

// BatchIterator is a lazy, finite, non-restartable sequence of batches.
type BatchIterator struct {
	c         *Container
	order     []int
	pos       int
	batchSize int
	split     Split
}

// Batches builds a batch iterator over the container. Examples whose
// selected-node-index list is empty are skipped on every split
// consistently, so train and test sides of the same fold partition the
// remaining index set exactly.
func (c *Container) Batches(opts BatchOptions) (*BatchIterator, error) {
	n := c.Len()

	var order []int
	if opts.Split == SplitAll {
		order = make([]int, n)
		for i := range order {
			order[i] = i
		}
		if opts.Shuffle {
			rng := rand.New(rand.NewSource(opts.Seed))
			rng.Shuffle(n, func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}
	} else {
		ratio := opts.TrainRatio
		if ratio == 0 {
			ratio = 0.8
		}
		if ratio <= 0 || ratio >= 1 {
			return nil, fmt.Errorf("dataset: train ratio must be in (0, 1), got %v", ratio)
		}
		numFolds := int(math.Round(1 / (1 - ratio)))
		if numFolds < 2 {
			numFolds = 2
		}
		if opts.Fold < 0 || opts.Fold >= numFolds {
			return nil, fmt.Errorf("dataset: fold %d out of range [0, %d)", opts.Fold, numFolds)
		}
		folds := kfoldSplit(n, numFolds, opts.Shuffle, opts.Seed)
		train, test := trainTestIndices(folds, opts.Fold)
		if opts.Split == SplitTrain {
			order = train
		} else {
			order = test
		}
	}

	kept := order[:0]
	for _, i := range order {
		if len(c.selected[i]) == 0 {
			continue
		}
		kept = append(kept, i)
	}

	return &BatchIterator{
		c:         c,
		order:     kept,
		batchSize: opts.BatchSize,
		split:     opts.Split,
	}, nil
}

// Next returns the next batch. The final partial batch is still yielded
// when non-empty; ok is false once the sequence is exhausted.
func (it *BatchIterator) Next() (Batch, bool) {
	if it.pos >= len(it.order) {
		return Batch{}, false
	}

	end := len(it.order)
	if it.batchSize > 0 && it.pos+it.batchSize < end {
		end = it.pos + it.batchSize
	}

	batch := Batch{Examples: make([]Example, 0, end-it.pos)}
	for _, i := range it.order[it.pos:end] {
		ex, err := it.c.Example(i)
		if err != nil {
			// Indices were validated at construction; a decode failure
			// here means the container was mutated mid-iteration.
			panic(err)
		}
		batch.Examples = append(batch.Examples, ex)
	}
	it.pos = end

	if it.c.metrics != nil {
		it.c.metrics.RecordBatch(it.split.String())
	}
	return batch, true
}

// Remaining returns how many examples have not yet been yielded.
func (it *BatchIterator) Remaining() int {
	return len(it.order) - it.pos
}

// Indices returns the full iteration order, empties already skipped.
func (it *BatchIterator) Indices() []int {
	return append([]int(nil), it.order...)
}
