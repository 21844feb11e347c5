// Package errors provides the typed error kinds used across the training
// pipeline. Every failure surfaced to a caller is one of the structured
// types below, so the request-handling layer can branch on kind instead of
// matching message strings. Constructors attach a stack trace via
// cockroachdb/errors; the types also marshal themselves into zerolog events
// for structured logging.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// SchemaInferenceError reports a dataset that cannot be profiled at all:
// zero columns or zero rows.
type SchemaInferenceError struct {
	Rows    int
	Columns int
	Reason  string
}

func (e *SchemaInferenceError) Error() string {
	return fmt.Sprintf("automl: schema inference failed: %s (rows=%d, columns=%d)", e.Reason, e.Rows, e.Columns)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *SchemaInferenceError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Int("rows", e.Rows).
		Int("columns", e.Columns).
		Str("reason", e.Reason).
		Str("type", "SchemaInferenceError")
}

// NewSchemaInferenceError creates a SchemaInferenceError with a stack trace.
func NewSchemaInferenceError(rows, columns int, reason string) error {
	err := &SchemaInferenceError{Rows: rows, Columns: columns, Reason: reason}
	return errors.WithStack(err)
}

// PreprocessingError reports that the encoding step produced nothing a model
// could train on: no usable feature columns, or too few rows survived
// missing-target filtering.
type PreprocessingError struct {
	Reason        string
	UsableColumns int
	RetainedRows  int
}

func (e *PreprocessingError) Error() string {
	return fmt.Sprintf("automl: preprocessing failed: %s (usable_columns=%d, retained_rows=%d)",
		e.Reason, e.UsableColumns, e.RetainedRows)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *PreprocessingError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("reason", e.Reason).
		Int("usable_columns", e.UsableColumns).
		Int("retained_rows", e.RetainedRows).
		Str("type", "PreprocessingError")
}

// NewPreprocessingError creates a PreprocessingError with a stack trace.
func NewPreprocessingError(reason string, usableColumns, retainedRows int) error {
	err := &PreprocessingError{Reason: reason, UsableColumns: usableColumns, RetainedRows: retainedRows}
	return errors.WithStack(err)
}

// ConfigurationError reports an invalid combination of task type, target
// column and algorithm in a training request. It is raised before any
// fitting starts.
type ConfigurationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("automl: invalid configuration for %q: %s (got: %v)", e.Field, e.Reason, e.Value)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *ConfigurationError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("field", e.Field).
		Interface("value", e.Value).
		Str("reason", e.Reason).
		Str("type", "ConfigurationError")
}

// NewConfigurationError creates a ConfigurationError with a stack trace.
func NewConfigurationError(field string, value interface{}, reason string) error {
	err := &ConfigurationError{Field: field, Value: value, Reason: reason}
	return errors.WithStack(err)
}

// ModelFitError reports that a single candidate failed to fit: a singular
// matrix, a convergence failure, or any other numerical problem. It is
// recorded per candidate and is only fatal when every candidate fails.
type ModelFitError struct {
	Algorithm string
	Reason    string
	Err       error
}

func (e *ModelFitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("automl: %s failed to fit: %s: %v", e.Algorithm, e.Reason, e.Err)
	}
	return fmt.Sprintf("automl: %s failed to fit: %s", e.Algorithm, e.Reason)
}

func (e *ModelFitError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *ModelFitError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("algorithm", e.Algorithm).
		Str("reason", e.Reason).
		Str("type", "ModelFitError")
	if e.Err != nil {
		ev.AnErr("cause", e.Err)
	}
}

// NewModelFitError creates a ModelFitError with a stack trace.
func NewModelFitError(algorithm, reason string, err error) error {
	fitErr := &ModelFitError{Algorithm: algorithm, Reason: reason, Err: err}
	return errors.WithStack(fitErr)
}

// TrainingFailedError reports that every candidate in a run failed to fit.
// Causes holds one entry per candidate, keyed by algorithm identifier.
type TrainingFailedError struct {
	Task   string
	Causes map[string]error
}

func (e *TrainingFailedError) Error() string {
	algos := make([]string, 0, len(e.Causes))
	for algo := range e.Causes {
		algos = append(algos, algo)
	}
	sort.Strings(algos)
	parts := make([]string, 0, len(algos))
	for _, algo := range algos {
		parts = append(parts, fmt.Sprintf("%s: %v", algo, e.Causes[algo]))
	}
	return fmt.Sprintf("automl: all %s candidates failed to fit: [%s]", e.Task, strings.Join(parts, "; "))
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *TrainingFailedError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("task", e.Task).
		Int("failed_candidates", len(e.Causes)).
		Str("type", "TrainingFailedError")
	for algo, cause := range e.Causes {
		ev.AnErr(algo, cause)
	}
}

// NewTrainingFailedError creates a TrainingFailedError with a stack trace.
func NewTrainingFailedError(task string, causes map[string]error) error {
	err := &TrainingFailedError{Task: task, Causes: causes}
	return errors.WithStack(err)
}

// NotFittedError reports Predict or Transform called on an estimator before
// Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("automl: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports input data whose shape does not match what an
// operation expects. Axis 0 is rows, axis 1 is columns/features.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("automl: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is invalid for an operation,
// independent of shape.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("automl: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// Wrappers around cockroachdb/errors so callers import a single errors
// package.

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

var (
	// ErrEmptyData is returned when an operation receives no data.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a linear solve hits a singular
	// design matrix.
	ErrSingularMatrix = New("singular matrix")
)
