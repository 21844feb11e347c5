package preprocessing

import (
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/dataset"
	"github.com/insightlab/automl/pkg/errors"
)

// MinRows is the minimum number of rows that must survive missing-target
// filtering for training to proceed.
const MinRows = 10

// columnPlan captures everything needed to encode one source column the
// same way at fit and transform time.
type columnPlan struct {
	Name       string
	Type       dataset.ColumnType
	Median     float64    // numeric imputation value
	Mode       string     // categorical/boolean imputation value
	Categories []string   // one-hot order, fixed at fit time
	SubMedians [3]float64 // datetime sub-feature imputation (year, month, weekday)
}

// Encoder is the fitted preprocessing transform. Fit learns imputation
// values, category sets and scaling statistics from one dataset; Transform
// replays them on new rows.
type Encoder struct {
	targetColumn string
	plans        []columnPlan
	featureNames []string
	sourceCols   []string

	// scaledIdx lists the matrix columns (numeric and datetime-derived)
	// that are standardized; one-hot columns stay 0/1.
	scaledIdx []int
	scaler    *StandardScaler
}

// Fit learns the encoding for ds under the given schema and returns the
// encoded matrix. When targetColumn is non-empty, rows with a missing
// target are dropped first and the target column is excluded from the
// features.
func Fit(ds *dataset.Dataset, schema dataset.Schema, targetColumn string) (*Encoder, *FeatureMatrix, error) {
	if targetColumn != "" && !ds.HasColumn(targetColumn) {
		return nil, nil, errors.NewValueError("preprocessing.Fit", "target column not in dataset: "+targetColumn)
	}

	retained := retainedRows(ds, targetColumn)
	if len(retained) < MinRows {
		return nil, nil, errors.NewPreprocessingError(
			"too few rows remain after dropping rows with missing target", 0, len(retained))
	}

	enc := &Encoder{targetColumn: targetColumn}
	var columns [][]float64 // column-major encoded values

	for _, name := range ds.ColumnNames() {
		if name == targetColumn {
			continue
		}
		cs := schema[name]
		if cs.Type == dataset.Text {
			continue
		}
		values, _ := ds.Column(name)

		plan, encoded := fitColumn(name, cs, values, retained)
		enc.plans = append(enc.plans, plan)
		for k, col := range encoded {
			columns = append(columns, col)
			enc.featureNames = append(enc.featureNames, encodedName(plan, k))
			enc.sourceCols = append(enc.sourceCols, name)
			if plan.Type == dataset.Numeric || plan.Type == dataset.Datetime {
				enc.scaledIdx = append(enc.scaledIdx, len(columns)-1)
			}
		}
	}

	if len(columns) == 0 {
		return nil, nil, errors.NewPreprocessingError(
			"no usable feature columns after excluding target and text columns", 0, len(retained))
	}

	X := assemble(columns, len(retained))
	if err := enc.fitScale(X); err != nil {
		return nil, nil, err
	}

	return enc, &FeatureMatrix{
		X:             X,
		FeatureNames:  enc.FeatureNames(),
		SourceColumns: enc.SourceColumns(),
		RetainedRows:  retained,
	}, nil
}

// Transform encodes new rows with the fitted plans. Missing values use the
// fit-time imputation values; categories unseen at fit time encode as all
// zeros.
func (e *Encoder) Transform(ds *dataset.Dataset) (*mat.Dense, error) {
	rows := make([]int, ds.RowCount())
	for i := range rows {
		rows[i] = i
	}

	var columns [][]float64
	for _, plan := range e.plans {
		values, ok := ds.Column(plan.Name)
		if !ok {
			return nil, errors.NewValueError("Encoder.Transform", "missing column: "+plan.Name)
		}
		for _, col := range applyColumn(plan, values, rows) {
			columns = append(columns, col)
		}
	}

	X := assemble(columns, ds.RowCount())
	if err := e.applyScale(X); err != nil {
		return nil, err
	}
	return X, nil
}

// TargetColumn returns the target column the encoder was fitted with.
func (e *Encoder) TargetColumn() string {
	return e.targetColumn
}

// FeatureNames returns the encoded feature names in matrix-column order.
func (e *Encoder) FeatureNames() []string {
	out := make([]string, len(e.featureNames))
	copy(out, e.featureNames)
	return out
}

// SourceColumns returns, per matrix column, the originating dataset column.
func (e *Encoder) SourceColumns() []string {
	out := make([]string, len(e.sourceCols))
	copy(out, e.sourceCols)
	return out
}

// retainedRows returns the dataset row indices kept for training: all rows
// for clustering, rows with a present target for supervised tasks.
func retainedRows(ds *dataset.Dataset, targetColumn string) []int {
	if targetColumn == "" {
		rows := make([]int, ds.RowCount())
		for i := range rows {
			rows[i] = i
		}
		return rows
	}

	target, _ := ds.Column(targetColumn)
	rows := make([]int, 0, ds.RowCount())
	for i, v := range target {
		if !dataset.IsMissing(v) {
			rows = append(rows, i)
		}
	}
	return rows
}

// fitColumn learns the plan for one column and returns its encoded columns
// over the retained rows.
func fitColumn(name string, cs dataset.ColumnSchema, values []string, rows []int) (columnPlan, [][]float64) {
	plan := columnPlan{Name: name, Type: cs.Type}

	switch cs.Type {
	case dataset.Numeric:
		plan.Median = columnMedian(values, rows)
	case dataset.Categorical, dataset.Boolean:
		plan.Mode = columnMode(values, rows)
		plan.Categories = observedCategories(values, rows)
	case dataset.Datetime:
		plan.SubMedians = datetimeMedians(values, rows)
	}

	return plan, applyColumn(plan, values, rows)
}

// applyColumn encodes one column under a fitted plan.
func applyColumn(plan columnPlan, values []string, rows []int) [][]float64 {
	switch plan.Type {
	case dataset.Numeric:
		col := make([]float64, len(rows))
		for i, r := range rows {
			col[i] = numericOr(values[r], plan.Median)
		}
		return [][]float64{col}

	case dataset.Categorical, dataset.Boolean:
		cols := make([][]float64, len(plan.Categories))
		for k := range cols {
			cols[k] = make([]float64, len(rows))
		}
		index := make(map[string]int, len(plan.Categories))
		for k, cat := range plan.Categories {
			index[cat] = k
		}
		for i, r := range rows {
			v := strings.TrimSpace(values[r])
			if dataset.IsMissing(values[r]) {
				v = plan.Mode
			}
			if k, ok := index[v]; ok {
				cols[k][i] = 1.0
			}
			// Unseen categories stay all-zero.
		}
		return cols

	case dataset.Datetime:
		cols := make([][]float64, 3)
		for k := range cols {
			cols[k] = make([]float64, len(rows))
		}
		for i, r := range rows {
			sub, ok := datetimeParts(values[r])
			if !ok {
				sub = plan.SubMedians
			}
			for k := 0; k < 3; k++ {
				cols[k][i] = sub[k]
			}
		}
		return cols
	}
	return nil
}

func encodedName(plan columnPlan, k int) string {
	switch plan.Type {
	case dataset.Categorical, dataset.Boolean:
		return plan.Name + "=" + plan.Categories[k]
	case dataset.Datetime:
		return plan.Name + "_" + [3]string{"year", "month", "weekday"}[k]
	}
	return plan.Name
}

func numericOr(value string, fallback float64) float64 {
	if dataset.IsMissing(value) {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

// columnMedian computes the median of the parseable non-missing values of
// a column over the given rows.
func columnMedian(values []string, rows []int) float64 {
	var nums []float64
	for _, r := range rows {
		if dataset.IsMissing(values[r]) {
			continue
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(values[r]), 64); err == nil {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return 0
	}
	median, _ := stats.Median(nums)
	return median
}

// columnMode returns the most frequent non-missing value; ties go to the
// earlier-seen value so the result is deterministic.
func columnMode(values []string, rows []int) string {
	counts := make(map[string]int)
	var order []string
	for _, r := range rows {
		if dataset.IsMissing(values[r]) {
			continue
		}
		v := strings.TrimSpace(values[r])
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	best, bestCount := "", -1
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

// observedCategories returns the distinct non-missing values in first-seen
// row order. This fixes the one-hot column order.
func observedCategories(values []string, rows []int) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, r := range rows {
		if dataset.IsMissing(values[r]) {
			continue
		}
		v := strings.TrimSpace(values[r])
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			categories = append(categories, v)
		}
	}
	return categories
}

func datetimeParts(value string) ([3]float64, bool) {
	if dataset.IsMissing(value) {
		return [3]float64{}, false
	}
	t, err := dataset.ParseDatetime(value)
	if err != nil {
		return [3]float64{}, false
	}
	return [3]float64{float64(t.Year()), float64(t.Month()), float64(t.Weekday())}, true
}

func datetimeMedians(values []string, rows []int) [3]float64 {
	var parts [3][]float64
	for _, r := range rows {
		if sub, ok := datetimeParts(values[r]); ok {
			for k := 0; k < 3; k++ {
				parts[k] = append(parts[k], sub[k])
			}
		}
	}
	var medians [3]float64
	for k := 0; k < 3; k++ {
		if len(parts[k]) > 0 {
			medians[k], _ = stats.Median(parts[k])
		}
	}
	return medians
}

func assemble(columns [][]float64, rows int) *mat.Dense {
	X := mat.NewDense(rows, len(columns), nil)
	for j, col := range columns {
		for i := 0; i < rows; i++ {
			X.Set(i, j, col[i])
		}
	}
	return X
}

// fitScale standardizes the numeric and datetime-derived columns of X in
// place and records the statistics for Transform.
func (e *Encoder) fitScale(X *mat.Dense) error {
	if len(e.scaledIdx) == 0 {
		return nil
	}

	sub := extractColumns(X, e.scaledIdx)
	e.scaler = NewStandardScaler()
	scaled, err := e.scaler.FitTransform(sub)
	if err != nil {
		return err
	}
	writeColumns(X, e.scaledIdx, scaled)
	return nil
}

func (e *Encoder) applyScale(X *mat.Dense) error {
	if e.scaler == nil {
		return nil
	}
	sub := extractColumns(X, e.scaledIdx)
	scaled, err := e.scaler.Transform(sub)
	if err != nil {
		return err
	}
	writeColumns(X, e.scaledIdx, scaled)
	return nil
}

func extractColumns(X *mat.Dense, idx []int) *mat.Dense {
	r, _ := X.Dims()
	sub := mat.NewDense(r, len(idx), nil)
	for j, col := range idx {
		for i := 0; i < r; i++ {
			sub.Set(i, j, X.At(i, col))
		}
	}
	return sub
}

func writeColumns(X *mat.Dense, idx []int, sub *mat.Dense) {
	r, _ := X.Dims()
	for j, col := range idx {
		for i := 0; i < r; i++ {
			X.Set(i, col, sub.At(i, j))
		}
	}
}
