package dataset

import (
	"math/rand"
)

// kfoldSplit partitions indices 0..n-1 into k contiguous folds of
// near-equal size: the first n%k folds get one extra element. When shuffle
// is set, the index array is permuted first with an RNG built from seed,
// so the split is reproducible.
func kfoldSplit(n, k int, shuffle bool, seed int64) [][]int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if shuffle {
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([][]int, k)
	foldSize := n / k
	extra := n % k
	pos := 0
	for f := 0; f < k; f++ {
		size := foldSize
		if f < extra {
			size++
		}
		folds[f] = indices[pos : pos+size]
		pos += size
	}
	return folds
}

// trainTestIndices returns the train- and test-side indices of one fold.
func trainTestIndices(folds [][]int, fold int) (train, test []int) {
	for f, indices := range folds {
		if f == fold {
			test = append(test, indices...)
		} else {
			train = append(train, indices...)
		}
	}
	return train, test
}
