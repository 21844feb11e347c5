package model

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/pkg/errors"
)

func TestRandomForestClassifierSeparable(t *testing.T) {
	X, y := separableBinary()

	rf := NewRandomForestClassifier(WithForestEstimators(25))
	if err := rf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := rf.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < y.Len(); i++ {
		if pred.AtVec(i) != y.AtVec(i) {
			t.Errorf("Predict()[%d] = %v, want %v", i, pred.AtVec(i), y.AtVec(i))
		}
	}
}

func TestRandomForestClassifierLabelGap(t *testing.T) {
	// An upstream 80/20 split can leave the training rows with a gap in
	// the encoded labels, e.g. {0, 2} when class 1 lands entirely in the
	// held-out rows. Fitting must not index class counters by the raw
	// label, and predictions must come back as the original labels.
	X := mat.NewDense(8, 1, []float64{-2.5, -2.0, -1.8, -2.2, 1.8, 2.0, 2.5, 2.2})
	y := mat.NewVecDense(8, []float64{0, 0, 0, 0, 2, 2, 2, 2})

	rf := NewRandomForestClassifier(WithForestEstimators(15))
	if err := rf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	classes := rf.Classes()
	if len(classes) != 2 || classes[0] != 0 || classes[1] != 2 {
		t.Fatalf("Classes() = %v, want [0 2]", classes)
	}

	pred, err := rf.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < y.Len(); i++ {
		if pred.AtVec(i) != y.AtVec(i) {
			t.Errorf("Predict()[%d] = %v, want %v", i, pred.AtVec(i), y.AtVec(i))
		}
	}
}

func TestRandomForestClassifierSingleClass(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewVecDense(4, []float64{0, 0, 0, 0})

	err := NewRandomForestClassifier().Fit(X, y)
	var fitErr *errors.ModelFitError
	if !errors.As(err, &fitErr) {
		t.Fatalf("Fit() error = %v, want ModelFitError", err)
	}
}

func TestRandomForestClassifierDeterministic(t *testing.T) {
	X, y := separableBinary()

	a := NewRandomForestClassifier(WithForestEstimators(10))
	b := NewRandomForestClassifier(WithForestEstimators(10))
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// Per-tree seeds derive from the forest seed and the tree index, so the
	// same data always yields the same forest.
	predA, err := a.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	predB, err := b.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < y.Len(); i++ {
		if predA.AtVec(i) != predB.AtVec(i) {
			t.Errorf("Predict()[%d] differs across identical fits", i)
		}
	}
}

func TestRandomForestRegressorStepFunction(t *testing.T) {
	// A piecewise-constant target that trees fit exactly.
	X := mat.NewDense(12, 1, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 5, 5.1, 5.2, 5.3, 5.4, 5.5})
	y := mat.NewVecDense(12, []float64{1, 1, 1, 1, 1, 1, 9, 9, 9, 9, 9, 9})

	rf := NewRandomForestRegressor(WithForestEstimators(25))
	if err := rf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := rf.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < 12; i++ {
		if math.Abs(pred.AtVec(i)-y.AtVec(i)) > 1.5 {
			t.Errorf("Predict()[%d] = %v, want near %v", i, pred.AtVec(i), y.AtVec(i))
		}
	}
}

func TestRandomForestPredictDimensionMismatch(t *testing.T) {
	X, y := separableBinary()
	rf := NewRandomForestClassifier(WithForestEstimators(5))
	if err := rf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	_, err := rf.Predict(mat.NewDense(1, 3, nil))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("Predict() error = %v, want DimensionError", err)
	}
}
