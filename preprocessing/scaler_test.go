package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/pkg/errors"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	scaler := NewStandardScaler()
	out, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	for j := 0; j < 2; j++ {
		sum, sumSq := 0.0, 0.0
		for i := 0; i < 4; i++ {
			v := out.At(i, j)
			sum += v
			sumSq += v * v
		}
		mean := sum / 4
		variance := sumSq/4 - mean*mean
		if math.Abs(mean) > 1e-12 {
			t.Errorf("column %d mean = %v, want 0", j, mean)
		}
		if math.Abs(variance-1) > 1e-12 {
			t.Errorf("column %d variance = %v, want 1", j, variance)
		}
	}
}

func TestStandardScalerConstantColumn(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := NewStandardScaler()
	out, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	// Zero-variance columns keep scale 1, so the output stays finite.
	for i := 0; i < 3; i++ {
		if v := out.At(i, 0); v != 0 {
			t.Errorf("row %d = %v, want 0", i, v)
		}
	}
	if scaler.Scale[0] != 1.0 {
		t.Errorf("Scale[0] = %v, want 1", scaler.Scale[0])
	}
}

func TestStandardScalerTransformBeforeFit(t *testing.T) {
	scaler := NewStandardScaler()
	_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))

	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Fatalf("Transform() error = %v, want NotFittedError", err)
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	scaler := NewStandardScaler()
	if err := scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	_, err := scaler.Transform(mat.NewDense(2, 3, nil))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("Transform() error = %v, want DimensionError", err)
	}
}
