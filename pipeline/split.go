package pipeline

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Supervised candidates are scored on a held-out fifth of the rows. The
// split is shuffled with a fixed seed so identical requests produce
// identical results and leaderboards stay comparable across candidates.
const (
	randomSeed   = 42
	testFraction = 0.2
)

// trainTestSplit returns shuffled train and test row indices for n rows.
// At least one row lands on each side.
func trainTestSplit(n int) (train, test []int) {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	rng := rand.New(rand.NewPCG(randomSeed, randomSeed))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	nTest := int(float64(n) * testFraction)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	return indices[nTest:], indices[:nTest]
}

// subsetMatrix copies the given rows of X into a new matrix.
func subsetMatrix(X mat.Matrix, rows []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(r, j))
		}
	}
	return out
}

// subsetVec copies the given elements of y into a new vector.
func subsetVec(y *mat.VecDense, rows []int) *mat.VecDense {
	out := mat.NewVecDense(len(rows), nil)
	for i, r := range rows {
		out.SetVec(i, y.AtVec(r))
	}
	return out
}
