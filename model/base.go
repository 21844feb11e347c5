// Package model implements the candidate algorithms the training pipeline
// can fit: linear and logistic regression, linear SVMs, CART-based random
// forests, and k-means. All estimators operate on gonum matrices and share
// the fitted-state handling of BaseEstimator.
package model

import "gonum.org/v1/gonum/mat"

// BaseEstimator carries the fitted/unfitted state shared by every
// estimator.
type BaseEstimator struct {
	fitted bool
}

// IsFitted reports whether Fit has completed successfully.
func (e *BaseEstimator) IsFitted() bool {
	return e.fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.fitted = true
}

// Reset returns the estimator to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.fitted = false
}

// Supervised is the contract the trainer uses for classification and
// regression candidates. Classifiers return class indices as float values.
type Supervised interface {
	Fit(X mat.Matrix, y *mat.VecDense) error
	Predict(X mat.Matrix) (*mat.VecDense, error)
}
