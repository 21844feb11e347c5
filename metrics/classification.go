package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/pkg/errors"
)

// Accuracy computes the fraction of exact label matches.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if int(yTrue.AtVec(i)) == int(yPred.AtVec(i)) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ConfusionMatrix counts actual-vs-predicted label pairs. Rows are actual
// classes, columns are predicted classes, both ordered by class index.
// Upstream encoding fixes class indices to first-seen label order.
type ConfusionMatrix struct {
	Counts [][]int
}

// NewConfusionMatrix builds a nClasses x nClasses confusion matrix from
// encoded label vectors.
func NewConfusionMatrix(yTrue, yPred *mat.VecDense, nClasses int) (*ConfusionMatrix, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("NewConfusionMatrix", "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError("NewConfusionMatrix", n, yPred.Len(), 0)
	}
	if nClasses < 1 {
		return nil, errors.NewValueError("NewConfusionMatrix", "nClasses must be positive")
	}

	counts := make([][]int, nClasses)
	for i := range counts {
		counts[i] = make([]int, nClasses)
	}
	for i := 0; i < n; i++ {
		actual, predicted := int(yTrue.AtVec(i)), int(yPred.AtVec(i))
		if actual < 0 || actual >= nClasses || predicted < 0 || predicted >= nClasses {
			return nil, errors.NewValueError("NewConfusionMatrix", "label outside class range")
		}
		counts[actual][predicted]++
	}
	return &ConfusionMatrix{Counts: counts}, nil
}

// Classes returns the number of classes.
func (cm *ConfusionMatrix) Classes() int {
	return len(cm.Counts)
}

// Total returns the number of scored samples.
func (cm *ConfusionMatrix) Total() int {
	total := 0
	for _, row := range cm.Counts {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// ActualCount returns the number of samples whose actual label is class.
func (cm *ConfusionMatrix) ActualCount(class int) int {
	total := 0
	for _, c := range cm.Counts[class] {
		total += c
	}
	return total
}

// PredictedCount returns the number of samples predicted as class.
func (cm *ConfusionMatrix) PredictedCount(class int) int {
	total := 0
	for _, row := range cm.Counts {
		total += row[class]
	}
	return total
}

// Precision returns TP / (TP + FP) for one class; 0 when the class was
// never predicted.
func (cm *ConfusionMatrix) Precision(class int) float64 {
	predicted := cm.PredictedCount(class)
	if predicted == 0 {
		return 0
	}
	return float64(cm.Counts[class][class]) / float64(predicted)
}

// Recall returns TP / (TP + FN) for one class; 0 when the class never
// occurs in the ground truth.
func (cm *ConfusionMatrix) Recall(class int) float64 {
	actual := cm.ActualCount(class)
	if actual == 0 {
		return 0
	}
	return float64(cm.Counts[class][class]) / float64(actual)
}

// F1 returns the harmonic mean of precision and recall for one class; 0
// when both are 0.
func (cm *ConfusionMatrix) F1(class int) float64 {
	p, r := cm.Precision(class), cm.Recall(class)
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// MacroPrecisionRecallF1 averages per-class precision, recall and F1 with
// equal class weight.
func (cm *ConfusionMatrix) MacroPrecisionRecallF1() (precision, recall, f1 float64) {
	n := float64(cm.Classes())
	for class := range cm.Counts {
		precision += cm.Precision(class)
		recall += cm.Recall(class)
		f1 += cm.F1(class)
	}
	return precision / n, recall / n, f1 / n
}
