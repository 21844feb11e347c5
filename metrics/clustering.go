package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/pkg/errors"
)

// Silhouette computes the mean silhouette coefficient over all points.
// When every point falls into a single cluster, or all pairwise distances
// are zero, the score is undefined and the sentinel value 0 is returned
// instead of an error.
func Silhouette(X mat.Matrix, labels []int) (float64, error) {
	n, _ := X.Dims()
	if n == 0 {
		return 0, errors.NewValueError("Silhouette", "empty matrix")
	}
	if len(labels) != n {
		return 0, errors.NewDimensionError("Silhouette", n, len(labels), 0)
	}

	clusters := make(map[int][]int)
	for i, label := range labels {
		clusters[label] = append(clusters[label], i)
	}
	if len(clusters) < 2 {
		return 0, nil
	}

	var total float64
	for i := 0; i < n; i++ {
		own := labels[i]

		// a: mean distance to the other members of the own cluster.
		// Singleton clusters contribute a silhouette of 0.
		members := clusters[own]
		if len(members) == 1 {
			continue
		}
		a := 0.0
		for _, j := range members {
			if j != i {
				a += rowDistance(X, i, j)
			}
		}
		a /= float64(len(members) - 1)

		// b: lowest mean distance to any other cluster.
		b := math.Inf(1)
		for label, other := range clusters {
			if label == own {
				continue
			}
			d := 0.0
			for _, j := range other {
				d += rowDistance(X, i, j)
			}
			d /= float64(len(other))
			if d < b {
				b = d
			}
		}

		denom := math.Max(a, b)
		if denom > 0 {
			total += (b - a) / denom
		}
	}

	return total / float64(n), nil
}

// ClusterSizes counts the members of each cluster 0..k-1.
func ClusterSizes(labels []int, k int) []int {
	sizes := make([]int, k)
	for _, label := range labels {
		if label >= 0 && label < k {
			sizes[label]++
		}
	}
	return sizes
}

func rowDistance(X mat.Matrix, i, j int) float64 {
	_, c := X.Dims()
	sum := 0.0
	for col := 0; col < c; col++ {
		d := X.At(i, col) - X.At(j, col)
		sum += d * d
	}
	return math.Sqrt(sum)
}
