package model

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/pkg/errors"
)

// SVMClassifier is a linear support vector classifier trained with
// stochastic subgradient descent on the hinge loss. Multiclass problems fit
// one-vs-rest. Training expects standardized inputs.
type SVMClassifier struct {
	BaseEstimator

	lambda float64 // regularization strength
	epochs int
	seed   uint64

	coef      [][]float64
	intercept []float64
	classes   []int
	nFeatures int
}

// SVMOption configures SVMClassifier and SVMRegressor.
type SVMOption func(*svmParams)

type svmParams struct {
	lambda  float64
	epochs  int
	epsilon float64
	seed    uint64
}

// WithSVMLambda sets the regularization strength.
func WithSVMLambda(lambda float64) SVMOption {
	return func(p *svmParams) { p.lambda = lambda }
}

// WithSVMEpochs sets the number of passes over the training data.
func WithSVMEpochs(n int) SVMOption {
	return func(p *svmParams) { p.epochs = n }
}

// WithSVMEpsilon sets the insensitivity band for regression.
func WithSVMEpsilon(eps float64) SVMOption {
	return func(p *svmParams) { p.epsilon = eps }
}

// WithSVMSeed fixes the shuffling seed for reproducible fits.
func WithSVMSeed(seed uint64) SVMOption {
	return func(p *svmParams) { p.seed = seed }
}

func newSVMParams(opts ...SVMOption) svmParams {
	p := svmParams{
		lambda:  1e-3,
		epochs:  50,
		epsilon: 0.1,
		seed:    42,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// NewSVMClassifier creates an SVMClassifier with default hyperparameters.
func NewSVMClassifier(opts ...SVMOption) *SVMClassifier {
	p := newSVMParams(opts...)
	return &SVMClassifier{lambda: p.lambda, epochs: p.epochs, seed: p.seed}
}

// Classes returns the class labels seen at fit time.
func (s *SVMClassifier) Classes() []int {
	out := make([]int, len(s.classes))
	copy(out, s.classes)
	return out
}

// Fit trains the classifier. y holds integer class labels as floats.
func (s *SVMClassifier) Fit(X mat.Matrix, y *mat.VecDense) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewValueError("SVMClassifier.Fit", "empty data")
	}
	if y.Len() != r {
		return errors.NewDimensionError("SVMClassifier.Fit", r, y.Len(), 0)
	}

	s.classes = distinctLabels(y)
	if len(s.classes) < 2 {
		return errors.NewModelFitError("svm", "y has a single class", nil)
	}
	s.nFeatures = c

	// Binary problems need a single separating hyperplane; multiclass fits
	// one per class.
	binaries := s.classes
	if len(s.classes) == 2 {
		binaries = s.classes[1:]
	}

	s.coef = make([][]float64, len(binaries))
	s.intercept = make([]float64, len(binaries))
	for k, class := range binaries {
		weights, bias, err := s.fitBinary(X, y, class)
		if err != nil {
			return err
		}
		s.coef[k] = weights
		s.intercept[k] = bias
	}

	s.SetFitted()
	return nil
}

// fitBinary runs Pegasos-style subgradient descent: labels are mapped to
// +1 for the positive class and -1 otherwise.
func (s *SVMClassifier) fitBinary(X mat.Matrix, y *mat.VecDense, positive int) ([]float64, float64, error) {
	r, c := X.Dims()

	target := make([]float64, r)
	for i := 0; i < r; i++ {
		if int(y.AtVec(i)) == positive {
			target[i] = 1.0
		} else {
			target[i] = -1.0
		}
	}

	weights := make([]float64, c)
	bias := 0.0
	rng := rand.New(rand.NewPCG(s.seed, s.seed))

	order := make([]int, r)
	for i := range order {
		order[i] = i
	}

	t := 0
	for epoch := 0; epoch < s.epochs; epoch++ {
		rng.Shuffle(r, func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, i := range order {
			t++
			eta := 1.0 / (s.lambda * float64(t))

			margin := bias
			for j := 0; j < c; j++ {
				margin += X.At(i, j) * weights[j]
			}
			margin *= target[i]

			for j := 0; j < c; j++ {
				weights[j] *= 1 - eta*s.lambda
			}
			if margin < 1 {
				for j := 0; j < c; j++ {
					weights[j] += eta * target[i] * X.At(i, j)
				}
				bias += eta * target[i]
			}
		}
	}

	for j := 0; j < c; j++ {
		if math.IsNaN(weights[j]) || math.IsInf(weights[j], 0) {
			return nil, 0, errors.NewModelFitError("svm", "weights diverged", nil)
		}
	}
	return weights, bias, nil
}

// Predict returns the class with the largest decision value for each row.
func (s *SVMClassifier) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SVMClassifier", "Predict")
	}

	r, c := X.Dims()
	if c != s.nFeatures {
		return nil, errors.NewDimensionError("SVMClassifier.Predict", s.nFeatures, c, 1)
	}

	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		if len(s.classes) == 2 {
			score := s.intercept[0]
			for j := 0; j < c; j++ {
				score += X.At(i, j) * s.coef[0][j]
			}
			if score >= 0 {
				out.SetVec(i, float64(s.classes[1]))
			} else {
				out.SetVec(i, float64(s.classes[0]))
			}
			continue
		}

		best, bestScore := s.classes[0], math.Inf(-1)
		for k, class := range s.classes {
			score := s.intercept[k]
			for j := 0; j < c; j++ {
				score += X.At(i, j) * s.coef[k][j]
			}
			if score > bestScore {
				best, bestScore = class, score
			}
		}
		out.SetVec(i, float64(best))
	}
	return out, nil
}

// SVMRegressor is a linear support vector regressor trained with
// stochastic subgradient descent on the epsilon-insensitive loss.
type SVMRegressor struct {
	BaseEstimator

	lambda  float64
	epochs  int
	epsilon float64
	seed    uint64

	coef      []float64
	intercept float64
	nFeatures int
}

// NewSVMRegressor creates an SVMRegressor with default hyperparameters.
func NewSVMRegressor(opts ...SVMOption) *SVMRegressor {
	p := newSVMParams(opts...)
	return &SVMRegressor{lambda: p.lambda, epochs: p.epochs, epsilon: p.epsilon, seed: p.seed}
}

// Fit trains the regressor on X and continuous targets y.
func (s *SVMRegressor) Fit(X mat.Matrix, y *mat.VecDense) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewValueError("SVMRegressor.Fit", "empty data")
	}
	if y.Len() != r {
		return errors.NewDimensionError("SVMRegressor.Fit", r, y.Len(), 0)
	}

	s.nFeatures = c
	s.coef = make([]float64, c)
	s.intercept = 0.0
	rng := rand.New(rand.NewPCG(s.seed, s.seed))

	order := make([]int, r)
	for i := range order {
		order[i] = i
	}

	t := 0
	for epoch := 0; epoch < s.epochs; epoch++ {
		rng.Shuffle(r, func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, i := range order {
			t++
			eta := 1.0 / (s.lambda * float64(t))

			pred := s.intercept
			for j := 0; j < c; j++ {
				pred += X.At(i, j) * s.coef[j]
			}
			residual := pred - y.AtVec(i)

			for j := 0; j < c; j++ {
				s.coef[j] *= 1 - eta*s.lambda
			}
			if residual > s.epsilon {
				for j := 0; j < c; j++ {
					s.coef[j] -= eta * X.At(i, j)
				}
				s.intercept -= eta
			} else if residual < -s.epsilon {
				for j := 0; j < c; j++ {
					s.coef[j] += eta * X.At(i, j)
				}
				s.intercept += eta
			}
		}
	}

	for j := 0; j < c; j++ {
		if math.IsNaN(s.coef[j]) || math.IsInf(s.coef[j], 0) {
			return errors.NewModelFitError("svm", "weights diverged", nil)
		}
	}

	s.SetFitted()
	return nil
}

// Predict returns the linear prediction for each row of X.
func (s *SVMRegressor) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SVMRegressor", "Predict")
	}

	r, c := X.Dims()
	if c != s.nFeatures {
		return nil, errors.NewDimensionError("SVMRegressor.Predict", s.nFeatures, c, 1)
	}

	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		pred := s.intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * s.coef[j]
		}
		out.SetVec(i, pred)
	}
	return out, nil
}
