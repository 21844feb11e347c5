package model

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/pkg/errors"
)

// twoBlobs returns six points forming two well-separated clusters.
func twoBlobs() *mat.Dense {
	return mat.NewDense(6, 2, []float64{
		0, 0,
		0.2, 0.1,
		0.1, 0.2,
		8, 8,
		8.2, 8.1,
		8.1, 8.2,
	})
}

func TestKMeansTwoBlobs(t *testing.T) {
	X := twoBlobs()

	km := NewKMeans(2)
	if err := km.Fit(X); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	labels := km.Labels()
	if len(labels) != 6 {
		t.Fatalf("Labels() length = %d, want 6", len(labels))
	}

	// The first three rows share one cluster, the last three the other.
	if labels[0] != labels[1] || labels[1] != labels[2] {
		t.Errorf("first blob split across clusters: %v", labels[:3])
	}
	if labels[3] != labels[4] || labels[4] != labels[5] {
		t.Errorf("second blob split across clusters: %v", labels[3:])
	}
	if labels[0] == labels[3] {
		t.Errorf("both blobs in one cluster: %v", labels)
	}

	// Tight blobs give a small within-cluster sum of squares.
	if km.Inertia > 1.0 {
		t.Errorf("Inertia = %v, want < 1", km.Inertia)
	}
}

func TestKMeansPredictMatchesFit(t *testing.T) {
	X := twoBlobs()

	km := NewKMeans(2)
	if err := km.Fit(X); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := km.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	labels := km.Labels()
	for i := range labels {
		if pred[i] != labels[i] {
			t.Errorf("Predict()[%d] = %d, want fit assignment %d", i, pred[i], labels[i])
		}
	}
}

func TestKMeansDeterministic(t *testing.T) {
	X := twoBlobs()

	a := NewKMeans(2)
	b := NewKMeans(2)
	if err := a.Fit(X); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if err := b.Fit(X); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	la, lb := a.Labels(), b.Labels()
	for i := range la {
		if la[i] != lb[i] {
			t.Errorf("Labels()[%d] differs across identical fits", i)
		}
	}
	if a.Inertia != b.Inertia {
		t.Errorf("Inertia differs across identical fits: %v vs %v", a.Inertia, b.Inertia)
	}
}

func TestKMeansFewerRowsThanClusters(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})

	err := NewKMeans(3).Fit(X)
	var fitErr *errors.ModelFitError
	if !errors.As(err, &fitErr) {
		t.Fatalf("Fit() error = %v, want ModelFitError", err)
	}
}

func TestKMeansPredictBeforeFit(t *testing.T) {
	_, err := NewKMeans(2).Predict(mat.NewDense(1, 1, []float64{1}))
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Fatalf("Predict() error = %v, want NotFittedError", err)
	}
}
