package evaluate

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var ErrSplit = errors.New("cannot split")

// TrainTestSplit shuffles row indices 0..n-1 with a seeded source and
// returns disjoint train and test index sets. The test set holds
// ceil(n*testSize) rows. The same n, testSize and seed always give the same
// partition.
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("%w: test size %v outside (0,1)", ErrSplit, testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return nil, nil, fmt.Errorf("%w: %d rows with test size %v leaves an empty partition", ErrSplit, n, testSize)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Select returns the elements of s at idx
func Select[T any](s []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = s[j]
	}
	return out
}
