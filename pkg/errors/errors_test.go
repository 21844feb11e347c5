package errors

import (
	"strings"
	"testing"
)

func TestSchemaInferenceError(t *testing.T) {
	err := NewSchemaInferenceError(0, 5, "dataset has no rows")

	var sErr *SchemaInferenceError
	if !As(err, &sErr) {
		t.Fatalf("As() failed for %v", err)
	}
	if sErr.Rows != 0 || sErr.Columns != 5 {
		t.Errorf("fields = (%d, %d), want (0, 5)", sErr.Rows, sErr.Columns)
	}
	if !strings.Contains(err.Error(), "dataset has no rows") {
		t.Errorf("Error() = %q, missing reason", err.Error())
	}
}

func TestModelFitErrorUnwrap(t *testing.T) {
	err := NewModelFitError("linear_regression", "singular design matrix", ErrSingularMatrix)

	if !Is(err, ErrSingularMatrix) {
		t.Errorf("Is(err, ErrSingularMatrix) = false")
	}

	var fitErr *ModelFitError
	if !As(err, &fitErr) {
		t.Fatalf("As() failed for %v", err)
	}
	if fitErr.Algorithm != "linear_regression" {
		t.Errorf("Algorithm = %q", fitErr.Algorithm)
	}
}

func TestTrainingFailedErrorListsCausesSorted(t *testing.T) {
	err := NewTrainingFailedError("classification", map[string]error{
		"svm":                 New("weights diverged"),
		"logistic_regression": New("loss diverged"),
	})

	msg := err.Error()
	// Cause order is sorted by algorithm so the message is deterministic.
	logIdx := strings.Index(msg, "logistic_regression")
	svmIdx := strings.Index(msg, "svm")
	if logIdx < 0 || svmIdx < 0 || logIdx > svmIdx {
		t.Errorf("Error() = %q, want causes sorted by algorithm", msg)
	}
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("n_clusters", 1, "cluster count must be at least 2")

	var cfgErr *ConfigurationError
	if !As(err, &cfgErr) {
		t.Fatalf("As() failed for %v", err)
	}
	if cfgErr.Field != "n_clusters" {
		t.Errorf("Field = %q, want n_clusters", cfgErr.Field)
	}
}

func TestWrapPreservesType(t *testing.T) {
	inner := NewPreprocessingError("too few rows", 0, 4)
	wrapped := Wrap(inner, "encoding dataset")

	var pErr *PreprocessingError
	if !As(wrapped, &pErr) {
		t.Fatalf("As() failed after Wrap: %v", wrapped)
	}
	if !strings.Contains(wrapped.Error(), "encoding dataset") {
		t.Errorf("Error() = %q, missing wrap message", wrapped.Error())
	}
}
