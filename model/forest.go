package model

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/pkg/errors"
	"github.com/insightlab/automl/pkg/parallel"
)

// forestParams are the hyperparameters shared by both forest variants.
type forestParams struct {
	nEstimators     int
	maxDepth        int
	minSamplesSplit int
	seed            uint64
}

// ForestOption configures RandomForestClassifier and RandomForestRegressor.
type ForestOption func(*forestParams)

// WithForestEstimators sets the number of trees.
func WithForestEstimators(n int) ForestOption {
	return func(p *forestParams) { p.nEstimators = n }
}

// WithForestMaxDepth caps the tree depth; 0 means unlimited.
func WithForestMaxDepth(d int) ForestOption {
	return func(p *forestParams) { p.maxDepth = d }
}

// WithForestSeed fixes the bootstrap and feature-sampling seed.
func WithForestSeed(seed uint64) ForestOption {
	return func(p *forestParams) { p.seed = seed }
}

func newForestParams(opts ...ForestOption) forestParams {
	p := forestParams{
		nEstimators:     100,
		maxDepth:        10,
		minSamplesSplit: 2,
		seed:            42,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// RandomForestClassifier is a bagged ensemble of CART classification trees
// with sqrt(n_features) feature sampling per split and majority voting.
type RandomForestClassifier struct {
	BaseEstimator

	params    forestParams
	trees     []*cart
	classes   []int
	nFeatures int
}

// NewRandomForestClassifier creates a RandomForestClassifier with default
// hyperparameters.
func NewRandomForestClassifier(opts ...ForestOption) *RandomForestClassifier {
	return &RandomForestClassifier{params: newForestParams(opts...)}
}

// Classes returns the class labels seen at fit time.
func (rf *RandomForestClassifier) Classes() []int {
	out := make([]int, len(rf.classes))
	copy(out, rf.classes)
	return out
}

// Fit trains the forest. y holds integer class labels as floats; labels
// must be contiguous indices starting at 0.
func (rf *RandomForestClassifier) Fit(X mat.Matrix, y *mat.VecDense) error {
	rows, features, err := validateSupervised("RandomForestClassifier.Fit", X, y)
	if err != nil {
		return err
	}

	rf.classes = distinctLabels(y)
	if len(rf.classes) < 2 {
		return errors.NewModelFitError("random_forest", "y has a single class", nil)
	}
	rf.nFeatures = features

	// Trees count classes in slices indexed 0..K-1, but an upstream split
	// can leave y with label gaps (a class present only in held-out rows).
	// Remap labels to class indices here; Predict maps votes back.
	classIdx := make(map[int]int, len(rf.classes))
	for k, class := range rf.classes {
		classIdx[class] = k
	}
	data := denseRows(X)
	target := make([]float64, rows)
	for i := 0; i < rows; i++ {
		target[i] = float64(classIdx[int(y.AtVec(i))])
	}

	maxFeatures := int(math.Sqrt(float64(features)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	rf.trees = make([]*cart, rf.params.nEstimators)
	parallel.For(rf.params.nEstimators, func(start, end int) {
		for k := start; k < end; k++ {
			rng := rand.New(rand.NewPCG(rf.params.seed, uint64(k)))
			tree := &cart{
				classify:        true,
				maxDepth:        rf.params.maxDepth,
				minSamplesSplit: rf.params.minSamplesSplit,
				maxFeatures:     maxFeatures,
				nClasses:        len(rf.classes),
				rng:             rng,
			}
			tree.fit(data, target, bootstrapIndices(rng, rows))
			rf.trees[k] = tree
		}
	})

	rf.SetFitted()
	return nil
}

// Predict returns the majority vote across trees for each row of X.
func (rf *RandomForestClassifier) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !rf.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestClassifier", "Predict")
	}
	r, c := X.Dims()
	if c != rf.nFeatures {
		return nil, errors.NewDimensionError("RandomForestClassifier.Predict", rf.nFeatures, c, 1)
	}

	data := denseRows(X)
	out := mat.NewVecDense(r, nil)
	parallel.ForThreshold(r, 256, func(start, end int) {
		for i := start; i < end; i++ {
			votes := make([]int, len(rf.classes))
			for _, tree := range rf.trees {
				votes[int(tree.predictRow(data[i]))]++
			}
			best, bestVotes := 0, -1
			for k, v := range votes {
				if v > bestVotes {
					best, bestVotes = k, v
				}
			}
			out.SetVec(i, float64(rf.classes[best]))
		}
	})
	return out, nil
}

// RandomForestRegressor is a bagged ensemble of CART regression trees with
// prediction averaging.
type RandomForestRegressor struct {
	BaseEstimator

	params    forestParams
	trees     []*cart
	nFeatures int
}

// NewRandomForestRegressor creates a RandomForestRegressor with default
// hyperparameters.
func NewRandomForestRegressor(opts ...ForestOption) *RandomForestRegressor {
	return &RandomForestRegressor{params: newForestParams(opts...)}
}

// Fit trains the forest on X and continuous targets y.
func (rf *RandomForestRegressor) Fit(X mat.Matrix, y *mat.VecDense) error {
	rows, features, err := validateSupervised("RandomForestRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	rf.nFeatures = features

	data, target := denseRows(X), vecValues(y)
	maxFeatures := features / 3
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	rf.trees = make([]*cart, rf.params.nEstimators)
	parallel.For(rf.params.nEstimators, func(start, end int) {
		for k := start; k < end; k++ {
			rng := rand.New(rand.NewPCG(rf.params.seed, uint64(k)))
			tree := &cart{
				classify:        false,
				maxDepth:        rf.params.maxDepth,
				minSamplesSplit: rf.params.minSamplesSplit,
				maxFeatures:     maxFeatures,
				rng:             rng,
			}
			tree.fit(data, target, bootstrapIndices(rng, rows))
			rf.trees[k] = tree
		}
	})

	rf.SetFitted()
	return nil
}

// Predict returns the mean tree prediction for each row of X.
func (rf *RandomForestRegressor) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !rf.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestRegressor", "Predict")
	}
	r, c := X.Dims()
	if c != rf.nFeatures {
		return nil, errors.NewDimensionError("RandomForestRegressor.Predict", rf.nFeatures, c, 1)
	}

	data := denseRows(X)
	out := mat.NewVecDense(r, nil)
	parallel.ForThreshold(r, 256, func(start, end int) {
		for i := start; i < end; i++ {
			sum := 0.0
			for _, tree := range rf.trees {
				sum += tree.predictRow(data[i])
			}
			out.SetVec(i, sum/float64(len(rf.trees)))
		}
	})
	return out, nil
}

func validateSupervised(op string, X mat.Matrix, y *mat.VecDense) (rows, features int, err error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return 0, 0, errors.NewValueError(op, "empty data")
	}
	if y.Len() != r {
		return 0, 0, errors.NewDimensionError(op, r, y.Len(), 0)
	}
	return r, c, nil
}

func bootstrapIndices(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}

func denseRows(X mat.Matrix) [][]float64 {
	r, c := X.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = X.At(i, j)
		}
		rows[i] = row
	}
	return rows
}

func vecValues(y *mat.VecDense) []float64 {
	out := make([]float64, y.Len())
	for i := range out {
		out[i] = y.AtVec(i)
	}
	return out
}
