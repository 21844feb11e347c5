package model

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/pkg/errors"
	"github.com/insightlab/automl/pkg/parallel"
)

// KMeans partitions rows into k clusters using k-means++ initialization
// followed by Lloyd iterations.
type KMeans struct {
	BaseEstimator

	k       int
	maxIter int
	seed    uint64

	Centroids [][]float64
	labels    []int
	Inertia   float64
	nFeatures int
}

// KMeansOption configures a KMeans.
type KMeansOption func(*KMeans)

// WithKMeansMaxIter sets the maximum Lloyd iterations.
func WithKMeansMaxIter(n int) KMeansOption {
	return func(km *KMeans) { km.maxIter = n }
}

// WithKMeansSeed fixes the initialization seed.
func WithKMeansSeed(seed uint64) KMeansOption {
	return func(km *KMeans) { km.seed = seed }
}

// NewKMeans creates a KMeans for k clusters.
func NewKMeans(k int, opts ...KMeansOption) *KMeans {
	km := &KMeans{
		k:       k,
		maxIter: 300,
		seed:    42,
	}
	for _, opt := range opts {
		opt(km)
	}
	return km
}

// K returns the configured cluster count.
func (km *KMeans) K() int {
	return km.k
}

// Labels returns the cluster assignment of each fitted row.
func (km *KMeans) Labels() []int {
	out := make([]int, len(km.labels))
	copy(out, km.labels)
	return out
}

// Fit clusters the rows of X.
func (km *KMeans) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewValueError("KMeans.Fit", "empty data")
	}
	if km.k < 1 {
		return errors.NewValueError("KMeans.Fit", "cluster count must be at least 1")
	}
	if r < km.k {
		return errors.NewModelFitError("k_means", "fewer rows than clusters", nil)
	}

	data := denseRows(X)
	km.nFeatures = c
	rng := rand.New(rand.NewPCG(km.seed, km.seed))
	km.Centroids = kmeansPlusPlus(data, km.k, rng)

	assign := make([]int, r)
	for iter := 0; iter < km.maxIter; iter++ {
		changed := km.assignStep(data, assign)

		// Recompute centroids as the mean of their members. Empty
		// clusters keep their previous centroid.
		sums := make([][]float64, km.k)
		counts := make([]int, km.k)
		for k := range sums {
			sums[k] = make([]float64, c)
		}
		for i, k := range assign {
			counts[k]++
			for j := 0; j < c; j++ {
				sums[k][j] += data[i][j]
			}
		}
		for k := 0; k < km.k; k++ {
			if counts[k] == 0 {
				continue
			}
			for j := 0; j < c; j++ {
				km.Centroids[k][j] = sums[k][j] / float64(counts[k])
			}
		}

		if !changed {
			break
		}
	}

	km.labels = assign
	km.Inertia = 0
	for i, k := range assign {
		km.Inertia += squaredDistance(data[i], km.Centroids[k])
	}

	km.SetFitted()
	return nil
}

// assignStep assigns each row to its nearest centroid and reports whether
// any assignment changed.
func (km *KMeans) assignStep(data [][]float64, assign []int) bool {
	changedFlags := make([]bool, len(data))
	parallel.ForThreshold(len(data), 512, func(start, end int) {
		for i := start; i < end; i++ {
			best, bestDist := 0, math.Inf(1)
			for k, centroid := range km.Centroids {
				if d := squaredDistance(data[i], centroid); d < bestDist {
					best, bestDist = k, d
				}
			}
			if assign[i] != best {
				changedFlags[i] = true
			}
			assign[i] = best
		}
	})
	for _, changed := range changedFlags {
		if changed {
			return true
		}
	}
	return false
}

// Predict assigns each row of X to its nearest fitted centroid.
func (km *KMeans) Predict(X mat.Matrix) ([]int, error) {
	if !km.IsFitted() {
		return nil, errors.NewNotFittedError("KMeans", "Predict")
	}
	r, c := X.Dims()
	if c != km.nFeatures {
		return nil, errors.NewDimensionError("KMeans.Predict", km.nFeatures, c, 1)
	}

	data := denseRows(X)
	out := make([]int, r)
	for i := 0; i < r; i++ {
		best, bestDist := 0, math.Inf(1)
		for k, centroid := range km.Centroids {
			if d := squaredDistance(data[i], centroid); d < bestDist {
				best, bestDist = k, d
			}
		}
		out[i] = best
	}
	return out, nil
}

// kmeansPlusPlus picks k starting centroids: the first uniformly, each
// subsequent one with probability proportional to its squared distance to
// the nearest chosen centroid.
func kmeansPlusPlus(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := data[rng.IntN(len(data))]
	centroids = append(centroids, append([]float64(nil), first...))

	for len(centroids) < k {
		distances := make([]float64, len(data))
		total := 0.0
		for i, row := range data {
			nearest := math.Inf(1)
			for _, centroid := range centroids {
				if d := squaredDistance(row, centroid); d < nearest {
					nearest = d
				}
			}
			distances[i] = nearest
			total += nearest
		}

		// All remaining points coincide with a centroid: pick uniformly.
		if total == 0 {
			next := data[rng.IntN(len(data))]
			centroids = append(centroids, append([]float64(nil), next...))
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := len(data) - 1
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), data[chosen]...))
	}
	return centroids
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for j := range a {
		d := a[j] - b[j]
		sum += d * d
	}
	return sum
}
