package model

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/pkg/errors"
)

// separableBinary is a linearly separable two-class problem: class 0 sits
// around x=-2, class 1 around x=+2.
func separableBinary() (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(8, 1, []float64{-2.5, -2.0, -1.8, -2.2, 1.8, 2.0, 2.5, 2.2})
	y := mat.NewVecDense(8, []float64{0, 0, 0, 0, 1, 1, 1, 1})
	return X, y
}

func TestLogisticRegressionBinary(t *testing.T) {
	X, y := separableBinary()

	lr := NewLogisticRegression(WithLogisticMaxIter(500))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	classes := lr.Classes()
	if len(classes) != 2 || classes[0] != 0 || classes[1] != 1 {
		t.Fatalf("Classes() = %v, want [0 1]", classes)
	}

	pred, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < y.Len(); i++ {
		if pred.AtVec(i) != y.AtVec(i) {
			t.Errorf("Predict()[%d] = %v, want %v", i, pred.AtVec(i), y.AtVec(i))
		}
	}
}

func TestLogisticRegressionMulticlass(t *testing.T) {
	// Three well-separated clusters along one axis.
	X := mat.NewDense(9, 1, []float64{-5, -5.2, -4.8, 0, 0.1, -0.1, 5, 5.2, 4.8})
	y := mat.NewVecDense(9, []float64{0, 0, 0, 1, 1, 1, 2, 2, 2})

	lr := NewLogisticRegression(WithLogisticMaxIter(1000))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := lr.Predict(X)
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

func TestLogisticRegressionSingleClass(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewVecDense(3, []float64{1, 1, 1})

	err := NewLogisticRegression().Fit(X, y)
	var fitErr *errors.ModelFitError
	if !errors.As(err, &fitErr) {
		t.Fatalf("Fit() error = %v, want ModelFitError", err)
	}
}

func TestLogisticRegressionDeterministic(t *testing.T) {
	X, y := separableBinary()

	a := NewLogisticRegression()
	b := NewLogisticRegression()
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	for j := range a.coef[0] {
		if a.coef[0][j] != b.coef[0][j] {
			t.Errorf("coef[%d] differs across identical fits: %v vs %v", j, a.coef[0][j], b.coef[0][j])
		}
	}
	if a.intercept[0] != b.intercept[0] {
		t.Errorf("intercept differs across identical fits")
	}
}

func TestDistinctLabels(t *testing.T) {
	y := mat.NewVecDense(6, []float64{2, 0, 1, 2, 0, 1})
	got := distinctLabels(y)
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("distinctLabels() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("distinctLabels()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
