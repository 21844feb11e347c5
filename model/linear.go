package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/pkg/errors"
)

// LinearRegression fits an ordinary least squares model via the normal
// equations: w = (X^T X)^-1 X^T y.
type LinearRegression struct {
	BaseEstimator

	Weights   *mat.VecDense
	Intercept float64
	NFeatures int
}

// NewLinearRegression creates an unfitted LinearRegression.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit solves the normal equations for X and y. A singular design matrix
// (e.g. perfectly collinear features) is reported as a fit failure.
func (lr *LinearRegression) Fit(X mat.Matrix, y *mat.VecDense) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewValueError("LinearRegression.Fit", "empty data")
	}
	if y.Len() != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, y.Len(), 0)
	}

	lr.NFeatures = c

	// Design matrix with a leading column of ones for the intercept.
	design := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		design.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			design.Set(i, j+1, X.At(i, j))
		}
	}

	var dt mat.Dense
	dt.CloneFrom(design.T())

	var gram mat.Dense
	gram.Mul(&dt, design)

	var gramInv mat.Dense
	if err := gramInv.Inverse(&gram); err != nil {
		return errors.NewModelFitError("linear_regression", "singular design matrix", errors.ErrSingularMatrix)
	}

	var dty mat.VecDense
	dty.MulVec(&dt, y)

	solution := mat.NewVecDense(c+1, nil)
	solution.MulVec(&gramInv, &dty)

	lr.Intercept = solution.AtVec(0)
	lr.Weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.Weights.SetVec(j, solution.AtVec(j+1))
	}

	lr.SetFitted()
	return nil
}

// Predict returns y = X*w + intercept for each row of X.
func (lr *LinearRegression) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		sum := lr.Intercept
		for j := 0; j < c; j++ {
			sum += X.At(i, j) * lr.Weights.AtVec(j)
		}
		out.SetVec(i, sum)
	}
	return out, nil
}
