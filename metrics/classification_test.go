package metrics

import (
	"math"
	"testing"
)

func TestAccuracy(t *testing.T) {
	got, err := Accuracy(vec(0, 1, 1, 0), vec(0, 1, 0, 0))
	if err != nil {
		t.Fatalf("Accuracy() error = %v", err)
	}
	if math.Abs(got-0.75) > 1e-12 {
		t.Errorf("Accuracy() = %v, want 0.75", got)
	}
}

func TestConfusionMatrixCounts(t *testing.T) {
	yTrue := vec(0, 0, 1, 1, 1, 2)
	yPred := vec(0, 1, 1, 1, 2, 2)

	cm, err := NewConfusionMatrix(yTrue, yPred, 3)
	if err != nil {
		t.Fatalf("NewConfusionMatrix() error = %v", err)
	}

	want := [][]int{
		{1, 1, 0},
		{0, 2, 1},
		{0, 0, 1},
	}
	for i := range want {
		for j := range want[i] {
			if cm.Counts[i][j] != want[i][j] {
				t.Errorf("Counts[%d][%d] = %d, want %d", i, j, cm.Counts[i][j], want[i][j])
			}
		}
	}

	// Cell counts sum to the number of scored samples, and each row sums to
	// the actual count of its class.
	if cm.Total() != 6 {
		t.Errorf("Total() = %d, want 6", cm.Total())
	}
	for class, wantActual := range []int{2, 3, 1} {
		if got := cm.ActualCount(class); got != wantActual {
			t.Errorf("ActualCount(%d) = %d, want %d", class, got, wantActual)
		}
	}
}

func TestConfusionMatrixPrecisionRecallF1(t *testing.T) {
	cm, err := NewConfusionMatrix(vec(1, 1, 1, 0, 0), vec(1, 1, 0, 0, 1), 2)
	if err != nil {
		t.Fatalf("NewConfusionMatrix() error = %v", err)
	}

	// Class 1: TP=2, FP=1, FN=1.
	if p := cm.Precision(1); math.Abs(p-2.0/3.0) > 1e-12 {
		t.Errorf("Precision(1) = %v, want 2/3", p)
	}
	if r := cm.Recall(1); math.Abs(r-2.0/3.0) > 1e-12 {
		t.Errorf("Recall(1) = %v, want 2/3", r)
	}
	if f := cm.F1(1); math.Abs(f-2.0/3.0) > 1e-12 {
		t.Errorf("F1(1) = %v, want 2/3", f)
	}
}

func TestConfusionMatrixZeroDivision(t *testing.T) {
	// Class 1 never occurs and is never predicted: all its rates are 0.
	cm, err := NewConfusionMatrix(vec(0, 0), vec(0, 0), 2)
	if err != nil {
		t.Fatalf("NewConfusionMatrix() error = %v", err)
	}
	if cm.Precision(1) != 0 || cm.Recall(1) != 0 || cm.F1(1) != 0 {
		t.Errorf("rates for absent class = (%v, %v, %v), want zeros",
			cm.Precision(1), cm.Recall(1), cm.F1(1))
	}
}

func TestMacroAverages(t *testing.T) {
	cm, err := NewConfusionMatrix(vec(0, 1), vec(0, 1), 2)
	if err != nil {
		t.Fatalf("NewConfusionMatrix() error = %v", err)
	}
	p, r, f := cm.MacroPrecisionRecallF1()
	if p != 1 || r != 1 || f != 1 {
		t.Errorf("MacroPrecisionRecallF1() = (%v, %v, %v), want all 1", p, r, f)
	}
}

func TestConfusionMatrixLabelOutOfRange(t *testing.T) {
	if _, err := NewConfusionMatrix(vec(0, 2), vec(0, 0), 2); err == nil {
		t.Fatal("NewConfusionMatrix() expected error for label outside range")
	}
}
