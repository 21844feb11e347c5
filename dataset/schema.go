package dataset

import (
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/insightlab/automl/pkg/errors"
)

// ColumnType is the inferred semantic type of a column.
type ColumnType string

const (
	Numeric     ColumnType = "numeric"
	Categorical ColumnType = "categorical"
	Datetime    ColumnType = "datetime"
	Boolean     ColumnType = "boolean"
	Text        ColumnType = "text"
)

// Inference thresholds. A column is numeric or datetime when at least
// parseRatio of its non-missing values parse as such; it is categorical when
// its distinct count is at most maxCategoricalDistinct or at most
// categoricalRowFraction of the row count.
const (
	parseRatio             = 0.9
	maxCategoricalDistinct = 20
	categoricalRowFraction = 0.05
)

// datetimeLayouts are tried in order when probing a value for a date.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// ColumnSchema describes one column: its inferred type and the summary
// statistics the profiling and insight layers display.
type ColumnSchema struct {
	Name           string     `json:"name"`
	Type           ColumnType `json:"type"`
	MissingCount   int        `json:"missing_count"`
	MissingPercent float64    `json:"missing_percent"`
	DistinctCount  int        `json:"distinct_count"`

	// Numeric summary, populated for numeric columns only.
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	Mean float64 `json:"mean,omitempty"`
	Std  float64 `json:"std,omitempty"`

	// Categories holds the distinct non-missing values of categorical and
	// boolean columns, in first-seen row order.
	Categories []string `json:"categories,omitempty"`
}

// Schema maps column names to their inferred schemas.
type Schema map[string]ColumnSchema

// InferSchema profiles every column of the dataset. Inference is a pure
// function of the column values: the same values always produce the same
// schema.
func InferSchema(d *Dataset) (Schema, error) {
	if len(d.columns) == 0 {
		return nil, errors.NewSchemaInferenceError(d.rows, 0, "dataset has no columns")
	}
	if d.rows == 0 {
		return nil, errors.NewSchemaInferenceError(0, len(d.columns), "dataset has no rows")
	}

	schema := make(Schema, len(d.columns))
	for i, name := range d.columns {
		schema[name] = inferColumn(name, d.cells[i], d.rows)
	}
	return schema, nil
}

func inferColumn(name string, values []string, rows int) ColumnSchema {
	cs := ColumnSchema{Name: name}

	present := make([]string, 0, len(values))
	distinct := make([]string, 0)
	seen := make(map[string]struct{})
	for _, v := range values {
		if IsMissing(v) {
			cs.MissingCount++
			continue
		}
		trimmed := strings.TrimSpace(v)
		present = append(present, trimmed)
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			distinct = append(distinct, trimmed)
		}
	}
	cs.MissingPercent = float64(cs.MissingCount) / float64(rows) * 100
	cs.DistinctCount = len(distinct)

	if len(present) == 0 {
		cs.Type = Text
		return cs
	}

	switch {
	case isBooleanVocabulary(distinct):
		cs.Type = Boolean
		cs.Categories = distinct
	case parseableRatio(present, parseFloat) >= parseRatio:
		cs.Type = Numeric
		fillNumericSummary(&cs, present)
	case parseableRatio(present, parseDatetime) >= parseRatio:
		cs.Type = Datetime
	case len(distinct) <= maxCategoricalDistinct || float64(len(distinct)) <= categoricalRowFraction*float64(rows):
		cs.Type = Categorical
		cs.Categories = distinct
	default:
		cs.Type = Text
	}
	return cs
}

// isBooleanVocabulary reports whether the distinct values are drawn entirely
// from {true,false} (any casing) or {0,1}. Checked before the numeric probe
// so 0/1 flag columns classify boolean rather than numeric.
func isBooleanVocabulary(distinct []string) bool {
	if len(distinct) == 0 {
		return false
	}
	allWords, allDigits := true, true
	for _, v := range distinct {
		switch strings.ToLower(v) {
		case "true", "false":
			allDigits = false
		case "0", "1":
			allWords = false
		default:
			return false
		}
	}
	return allWords || allDigits
}

func parseableRatio(values []string, parse func(string) bool) float64 {
	ok := 0
	for _, v := range values {
		if parse(v) {
			ok++
		}
	}
	return float64(ok) / float64(len(values))
}

func parseFloat(v string) bool {
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

func parseDatetime(v string) bool {
	_, err := ParseDatetime(v)
	return err == nil
}

// ParseDatetime parses a cell value against the supported datetime layouts.
func ParseDatetime(v string) (time.Time, error) {
	trimmed := strings.TrimSpace(v)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Newf("unrecognized datetime value: %q", v)
}

func fillNumericSummary(cs *ColumnSchema, present []string) {
	nums := make([]float64, 0, len(present))
	for _, v := range present {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return
	}
	// stats errors only on empty input, which is excluded above.
	cs.Min, _ = stats.Min(nums)
	cs.Max, _ = stats.Max(nums)
	cs.Mean, _ = stats.Mean(nums)
	cs.Std, _ = stats.StandardDeviation(nums)
}
