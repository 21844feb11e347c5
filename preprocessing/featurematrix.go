// Package preprocessing turns a profiled dataset into the model-ready
// numeric matrix the candidates train on: median/mode imputation, one-hot
// encoding, datetime decomposition and standardization. The fitted Encoder
// is retained with the trained model so new rows get the identical
// transform at prediction time.
package preprocessing

import "gonum.org/v1/gonum/mat"

// FeatureMatrix is the encoded numeric representation of a dataset. No cell
// is NaN after encoding.
type FeatureMatrix struct {
	// X has one row per retained dataset row and one column per encoded
	// feature.
	X *mat.Dense

	// FeatureNames names each matrix column; one-hot columns use the form
	// "column=category".
	FeatureNames []string

	// SourceColumns maps each matrix column back to the dataset column it
	// was derived from.
	SourceColumns []string

	// RetainedRows holds the original dataset row indices that survived
	// missing-target filtering, in order.
	RetainedRows []int
}

// Rows returns the number of retained rows.
func (fm *FeatureMatrix) Rows() int {
	r, _ := fm.X.Dims()
	return r
}

// Features returns the number of encoded feature columns.
func (fm *FeatureMatrix) Features() int {
	_, c := fm.X.Dims()
	return c
}
