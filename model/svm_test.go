package model

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/pkg/errors"
)

func TestSVMClassifierBinary(t *testing.T) {
	X, y := separableBinary()

	svm := NewSVMClassifier(WithSVMEpochs(100))
	if err := svm.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := svm.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < y.Len(); i++ {
		if pred.AtVec(i) != y.AtVec(i) {
			t.Errorf("Predict()[%d] = %v, want %v", i, pred.AtVec(i), y.AtVec(i))
		}
	}
}

func TestSVMClassifierMulticlass(t *testing.T) {
	X := mat.NewDense(9, 2, []float64{
		-3, -3, -3.2, -2.8, -2.8, -3.1,
		3, 3, 3.2, 2.8, 2.9, 3.1,
		0, 6, 0.1, 6.2, -0.1, 5.9,
	})
	y := mat.NewVecDense(9, []float64{0, 0, 0, 1, 1, 1, 2, 2, 2})

	svm := NewSVMClassifier(WithSVMEpochs(100))
	if err := svm.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := svm.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	correct := 0
	for i := 0; i < y.Len(); i++ {
		if pred.AtVec(i) == y.AtVec(i) {
			correct++
		}
	}
	if correct < 8 {
		t.Errorf("correct predictions = %d/9, want at least 8", correct)
	}
}

func TestSVMClassifierSingleClass(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewVecDense(3, []float64{0, 0, 0})

	err := NewSVMClassifier().Fit(X, y)
	var fitErr *errors.ModelFitError
	if !errors.As(err, &fitErr) {
		t.Fatalf("Fit() error = %v, want ModelFitError", err)
	}
}

func TestSVMClassifierDeterministic(t *testing.T) {
	X, y := separableBinary()

	a := NewSVMClassifier()
	b := NewSVMClassifier()
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	for j := range a.coef[0] {
		if a.coef[0][j] != b.coef[0][j] {
			t.Errorf("coef[%d] differs across identical fits", j)
		}
	}
}

func TestSVMRegressorLinearTrend(t *testing.T) {
	// y = 2x on standardized-scale inputs.
	X := mat.NewDense(10, 1, []float64{-1.8, -1.4, -1.0, -0.6, -0.2, 0.2, 0.6, 1.0, 1.4, 1.8})
	y := mat.NewVecDense(10, nil)
	for i := 0; i < 10; i++ {
		y.SetVec(i, 2*X.At(i, 0))
	}

	svr := NewSVMRegressor(WithSVMEpochs(200), WithSVMEpsilon(0.01))
	if err := svr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := svr.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	var sumAbs float64
	for i := 0; i < 10; i++ {
		sumAbs += math.Abs(pred.AtVec(i) - y.AtVec(i))
	}
	if mae := sumAbs / 10; mae > 0.5 {
		t.Errorf("mean absolute error = %v, want < 0.5", mae)
	}
}

func TestSVMRegressorPredictBeforeFit(t *testing.T) {
	_, err := NewSVMRegressor().Predict(mat.NewDense(1, 1, []float64{1}))
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Fatalf("Predict() error = %v, want NotFittedError", err)
	}
}
