package eval

import "math/rand"

// kfoldIndices partitions row indices [0, n) into k folds.
//
// With shuffle enabled, indices are permuted by a generator seeded with
// seed, so the same (n, k, seed) always yields the same folds. Rows are
// dealt round-robin, so fold sizes differ by at most one. Plain K-fold by
// index per the documented policy; no stratification by target.
func kfoldIndices(n, k int, shuffle bool, seed int64) [][]int {
	order := make([]int, n)
	if shuffle {
		rng := rand.New(rand.NewSource(seed))
		copy(order, rng.Perm(n))
	} else {
		for i := range order {
			order[i] = i
		}
	}

	folds := make([][]int, k)
	for i, idx := range order {
		folds[i%k] = append(folds[i%k], idx)
	}
	return folds
}

// trainIndices returns every index not in the held-out fold, preserving
// the dealt order of the remaining folds.
func trainIndices(folds [][]int, holdOut int) []int {
	var train []int
	for f, fold := range folds {
		if f == holdOut {
			continue
		}
		train = append(train, fold...)
	}
	return train
}
