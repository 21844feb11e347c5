package model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/pkg/errors"
)

// LogisticRegression is a gradient-descent logistic classifier. Binary
// problems use a single weight vector; multiclass problems fit one-vs-rest.
// Class labels are the distinct values of y, sorted ascending.
type LogisticRegression struct {
	BaseEstimator

	maxIter      int
	learningRate float64
	tol          float64
	l2           float64

	coef      [][]float64
	intercept []float64
	classes   []int
	nFeatures int
}

// LogisticRegressionOption configures a LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// WithLogisticMaxIter sets the maximum gradient-descent iterations.
func WithLogisticMaxIter(n int) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.maxIter = n }
}

// WithLogisticLearningRate sets the gradient-descent step size.
func WithLogisticLearningRate(rate float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.learningRate = rate }
}

// WithLogisticTol sets the loss-change tolerance used to stop early.
func WithLogisticTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.tol = tol }
}

// NewLogisticRegression creates a LogisticRegression with default
// hyperparameters.
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		maxIter:      200,
		learningRate: 0.1,
		tol:          1e-5,
		l2:           1e-4,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Classes returns the class labels seen at fit time.
func (lr *LogisticRegression) Classes() []int {
	out := make([]int, len(lr.classes))
	copy(out, lr.classes)
	return out
}

// Fit trains the classifier. y holds integer class labels as floats.
func (lr *LogisticRegression) Fit(X mat.Matrix, y *mat.VecDense) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewValueError("LogisticRegression.Fit", "empty data")
	}
	if y.Len() != r {
		return errors.NewDimensionError("LogisticRegression.Fit", r, y.Len(), 0)
	}

	lr.classes = distinctLabels(y)
	if len(lr.classes) < 2 {
		return errors.NewModelFitError("logistic_regression", "y has a single class", nil)
	}
	lr.nFeatures = c

	if len(lr.classes) == 2 {
		lr.coef = make([][]float64, 1)
		lr.intercept = make([]float64, 1)
		weights, bias, err := lr.fitBinary(X, y, lr.classes[1])
		if err != nil {
			return err
		}
		lr.coef[0] = weights
		lr.intercept[0] = bias
	} else {
		// One-vs-rest: one binary problem per class.
		lr.coef = make([][]float64, len(lr.classes))
		lr.intercept = make([]float64, len(lr.classes))
		for k, class := range lr.classes {
			weights, bias, err := lr.fitBinary(X, y, class)
			if err != nil {
				return err
			}
			lr.coef[k] = weights
			lr.intercept[k] = bias
		}
	}

	lr.SetFitted()
	return nil
}

// fitBinary runs full-batch gradient descent on the log loss, treating
// positive as class 1.
func (lr *LogisticRegression) fitBinary(X mat.Matrix, y *mat.VecDense, positive int) ([]float64, float64, error) {
	r, c := X.Dims()

	target := make([]float64, r)
	for i := 0; i < r; i++ {
		if int(y.AtVec(i)) == positive {
			target[i] = 1.0
		}
	}

	weights := make([]float64, c)
	bias := 0.0
	prevLoss := math.Inf(1)

	for iter := 0; iter < lr.maxIter; iter++ {
		gradW := make([]float64, c)
		gradB := 0.0
		loss := 0.0

		for i := 0; i < r; i++ {
			z := bias
			for j := 0; j < c; j++ {
				z += X.At(i, j) * weights[j]
			}
			p := sigmoid(z)
			diff := p - target[i]
			gradB += diff
			for j := 0; j < c; j++ {
				gradW[j] += diff * X.At(i, j)
			}
			loss -= target[i]*math.Log(p+1e-12) + (1-target[i])*math.Log(1-p+1e-12)
		}

		step := lr.learningRate / float64(r)
		for j := 0; j < c; j++ {
			weights[j] -= step * (gradW[j] + lr.l2*weights[j])
		}
		bias -= step * gradB

		loss /= float64(r)
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return nil, 0, errors.NewModelFitError("logistic_regression", "loss diverged", nil)
		}
		if math.Abs(prevLoss-loss) < lr.tol {
			break
		}
		prevLoss = loss
	}

	return weights, bias, nil
}

// Predict returns the most probable class label for each row of X.
func (lr *LogisticRegression) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.nFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.Predict", lr.nFeatures, c, 1)
	}

	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		if len(lr.classes) == 2 {
			z := lr.intercept[0]
			for j := 0; j < c; j++ {
				z += X.At(i, j) * lr.coef[0][j]
			}
			if sigmoid(z) >= 0.5 {
				out.SetVec(i, float64(lr.classes[1]))
			} else {
				out.SetVec(i, float64(lr.classes[0]))
			}
			continue
		}

		best, bestScore := lr.classes[0], math.Inf(-1)
		for k, class := range lr.classes {
			z := lr.intercept[k]
			for j := 0; j < c; j++ {
				z += X.At(i, j) * lr.coef[k][j]
			}
			if z > bestScore {
				best, bestScore = class, z
			}
		}
		out.SetVec(i, float64(best))
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// distinctLabels returns the distinct integer labels of y, sorted
// ascending.
func distinctLabels(y *mat.VecDense) []int {
	seen := make(map[int]struct{})
	var labels []int
	for i := 0; i < y.Len(); i++ {
		label := int(y.AtVec(i))
		if _, ok := seen[label]; !ok {
			seen[label] = struct{}{}
			labels = append(labels, label)
		}
	}
	for i := 0; i < len(labels)-1; i++ {
		for j := i + 1; j < len(labels); j++ {
			if labels[i] > labels[j] {
				labels[i], labels[j] = labels[j], labels[i]
			}
		}
	}
	return labels
}
