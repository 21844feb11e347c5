// Package dataset models an ingested tabular dataset and infers a semantic
// schema for its columns. A Dataset is created once from parsed file
// contents and is immutable afterwards; everything downstream (encoding,
// training) builds new structures instead of mutating it.
package dataset

import (
	"strings"

	"github.com/insightlab/automl/pkg/errors"
)

// Dataset is an ordered collection of named columns of raw cell values.
// Cells are kept as the strings delivered by the ingestion layer; typing
// happens at schema inference and encoding time.
type Dataset struct {
	columns []string
	index   map[string]int
	cells   [][]string // cells[col][row]
	rows    int
}

// New builds a Dataset from column names and row-major records. Every record
// must have exactly one cell per column, and column names must be unique.
func New(columns []string, records [][]string) (*Dataset, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, errors.NewValueError("dataset.New", "duplicate column name: "+name)
		}
		index[name] = i
	}

	cells := make([][]string, len(columns))
	for i := range cells {
		cells[i] = make([]string, len(records))
	}
	for r, record := range records {
		if len(record) != len(columns) {
			return nil, errors.NewDimensionError("dataset.New", len(columns), len(record), 1)
		}
		for c, v := range record {
			cells[c][r] = v
		}
	}

	return &Dataset{
		columns: columns,
		index:   index,
		cells:   cells,
		rows:    len(records),
	}, nil
}

// RowCount returns the number of rows.
func (d *Dataset) RowCount() int {
	return d.rows
}

// ColumnNames returns the column names in ingestion order. The returned
// slice is a copy.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	copy(names, d.columns)
	return names
}

// HasColumn reports whether the dataset contains a column with the given
// name.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns the raw values of the named column in row order. The
// returned slice is a copy.
func (d *Dataset) Column(name string) ([]string, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	col := make([]string, d.rows)
	copy(col, d.cells[i])
	return col, true
}

// missingSentinels are the tokens treated as a missing cell, beyond empty
// and whitespace-only strings. Matched case-insensitively.
var missingSentinels = map[string]struct{}{
	"na":   {},
	"n/a":  {},
	"null": {},
	"-":    {},
}

// IsMissing reports whether a raw cell value counts as missing.
func IsMissing(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return true
	}
	_, ok := missingSentinels[strings.ToLower(trimmed)]
	return ok
}
