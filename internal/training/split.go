package training

import (
	"math"
	"math/rand"

	"github.com/dmitrijs2005/severity/internal/common"
)

// Split shuffles row indices with seed and holds out ceil(testSize*n) rows
// for testing. At least one row always stays in training.
func Split(n int, testSize float64, seed int64) (train, test []int) {
	if n == 0 {
		return nil, nil
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTest = max(0, min(nTest, n-1))

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest]
}

func (m *Matrix) subset(idx []int) ([][common.FeatureCount]float64, []int) {
	X := make([][common.FeatureCount]float64, len(idx))
	y := make([]int, len(idx))
	for i, k := range idx {
		X[i] = m.X[k]
		y[i] = m.Y[k]
	}
	return X, y
}
