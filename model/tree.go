package model

import (
	"math"
	"math/rand/v2"
	"sort"
)

// cart is a CART tree shared by the random forest variants. Classification
// trees split on Gini impurity, regression trees on variance.
type cart struct {
	classify        bool
	maxDepth        int
	minSamplesSplit int
	maxFeatures     int // features sampled per split; 0 means all
	nClasses        int
	rng             *rand.Rand

	root *treeNode
}

type treeNode struct {
	leaf      bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *treeNode
	right     *treeNode
	value     float64 // majority class index or mean target
}

func (t *cart) fit(X [][]float64, y []float64, idx []int) {
	t.root = t.build(X, y, idx, 0)
}

func (t *cart) build(X [][]float64, y []float64, idx []int, depth int) *treeNode {
	if len(idx) < t.minSamplesSplit || (t.maxDepth > 0 && depth >= t.maxDepth) || t.pure(y, idx) {
		return &treeNode{leaf: true, value: t.leafValue(y, idx)}
	}

	feature, threshold, ok := t.bestSplit(X, y, idx)
	if !ok {
		return &treeNode{leaf: true, value: t.leafValue(y, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: t.leafValue(y, idx)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.build(X, y, left, depth+1),
		right:     t.build(X, y, right, depth+1),
	}
}

func (t *cart) pure(y []float64, idx []int) bool {
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}

func (t *cart) leafValue(y []float64, idx []int) float64 {
	if t.classify {
		counts := make([]int, t.nClasses)
		for _, i := range idx {
			counts[int(y[i])]++
		}
		best, bestCount := 0, -1
		for class, count := range counts {
			if count > bestCount {
				best, bestCount = class, count
			}
		}
		return float64(best)
	}

	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

// bestSplit scans the sampled features for the threshold with the lowest
// weighted child impurity.
func (t *cart) bestSplit(X [][]float64, y []float64, idx []int) (int, float64, bool) {
	nFeatures := len(X[0])
	features := t.sampleFeatures(nFeatures)

	bestImpurity := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, len(idx))
	for _, f := range features {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool { return X[sorted[a]][f] < X[sorted[b]][f] })

		for pos := 1; pos < len(sorted); pos++ {
			prev, cur := X[sorted[pos-1]][f], X[sorted[pos]][f]
			if prev == cur {
				continue
			}
			threshold := (prev + cur) / 2
			impurity := t.splitImpurity(y, sorted, pos)
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature, bestThreshold = f, threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

// splitImpurity computes the size-weighted impurity of splitting sorted at
// pos (left = sorted[:pos], right = sorted[pos:]).
func (t *cart) splitImpurity(y []float64, sorted []int, pos int) float64 {
	n := float64(len(sorted))
	left, right := sorted[:pos], sorted[pos:]
	if t.classify {
		return float64(len(left))/n*t.gini(y, left) + float64(len(right))/n*t.gini(y, right)
	}
	return float64(len(left))/n*t.variance(y, left) + float64(len(right))/n*t.variance(y, right)
}

func (t *cart) gini(y []float64, idx []int) float64 {
	counts := make([]int, t.nClasses)
	for _, i := range idx {
		counts[int(y[i])]++
	}
	g := 1.0
	n := float64(len(idx))
	for _, count := range counts {
		p := float64(count) / n
		g -= p * p
	}
	return g
}

func (t *cart) variance(y []float64, idx []int) float64 {
	mean := 0.0
	for _, i := range idx {
		mean += y[i]
	}
	mean /= float64(len(idx))

	v := 0.0
	for _, i := range idx {
		d := y[i] - mean
		v += d * d
	}
	return v / float64(len(idx))
}

func (t *cart) sampleFeatures(nFeatures int) []int {
	if t.maxFeatures <= 0 || t.maxFeatures >= nFeatures {
		all := make([]int, nFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := t.rng.Perm(nFeatures)
	return perm[:t.maxFeatures]
}

func (t *cart) predictRow(row []float64) float64 {
	node := t.root
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}
