package preprocessing

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/dataset"
	"github.com/insightlab/automl/pkg/errors"
)

// LabelEncoder maps classification target labels to contiguous class
// indices in first-seen row order. The confusion matrix and the binary
// positive-class rule both rely on this order.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder creates an empty LabelEncoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{index: make(map[string]int)}
}

// FitTransform assigns an index to each distinct label and returns the
// encoded target vector.
func (le *LabelEncoder) FitTransform(labels []string) *mat.VecDense {
	out := mat.NewVecDense(len(labels), nil)
	for i, label := range labels {
		trimmed := strings.TrimSpace(label)
		idx, ok := le.index[trimmed]
		if !ok {
			idx = len(le.classes)
			le.index[trimmed] = idx
			le.classes = append(le.classes, trimmed)
		}
		out.SetVec(i, float64(idx))
	}
	return out
}

// Classes returns the labels in encoding order.
func (le *LabelEncoder) Classes() []string {
	out := make([]string, len(le.classes))
	copy(out, le.classes)
	return out
}

// InverseTransform maps class indices back to their labels. Unknown
// indices return an empty string.
func (le *LabelEncoder) InverseTransform(indices []float64) []string {
	out := make([]string, len(indices))
	for i, v := range indices {
		idx := int(v)
		if idx >= 0 && idx < len(le.classes) {
			out[i] = le.classes[idx]
		}
	}
	return out
}

// TargetLabels extracts the raw target values at the retained rows. Rows
// with a missing target are assumed to be filtered out already.
func TargetLabels(ds *dataset.Dataset, column string, rows []int) ([]string, error) {
	values, ok := ds.Column(column)
	if !ok {
		return nil, errors.NewValueError("preprocessing.TargetLabels", "missing column: "+column)
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = strings.TrimSpace(values[r])
	}
	return out, nil
}

// NumericTarget extracts and parses the target values at the retained rows
// for regression tasks. A present but unparseable value means the column
// cannot serve as a regression target, reported as a PreprocessingError.
func NumericTarget(ds *dataset.Dataset, column string, rows []int) (*mat.VecDense, error) {
	values, ok := ds.Column(column)
	if !ok {
		return nil, errors.NewValueError("preprocessing.NumericTarget", "missing column: "+column)
	}
	out := mat.NewVecDense(len(rows), nil)
	for i, r := range rows {
		f, err := strconv.ParseFloat(strings.TrimSpace(values[r]), 64)
		if err != nil {
			return nil, errors.NewPreprocessingError(
				"regression target value is not numeric: "+values[r], 0, len(rows))
		}
		out.SetVec(i, f)
	}
	return out, nil
}
