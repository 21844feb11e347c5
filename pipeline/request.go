// Package pipeline orchestrates automated model training: it profiles a
// dataset, encodes it, fits one or more candidate algorithms, scores them
// on a held-out split and assembles a single TrainingResult. Train is the
// only entry point external collaborators call.
package pipeline

import (
	"github.com/insightlab/automl/dataset"
	"github.com/insightlab/automl/pkg/errors"
)

// TaskType identifies what kind of model a request wants.
type TaskType string

const (
	Classification TaskType = "classification"
	Regression     TaskType = "regression"
	Clustering     TaskType = "clustering"
)

// AlgorithmAuto asks the trainer to fit every registered candidate for the
// task and keep the best one.
const AlgorithmAuto = "auto"

// TrainingRequest describes one training invocation. The dataset is owned
// by the invocation and is never mutated.
type TrainingRequest struct {
	Dataset      *dataset.Dataset
	TaskType     TaskType
	TargetColumn string

	// Algorithm is a registry key for the task type, or AlgorithmAuto for
	// supervised tasks. Empty defaults to AlgorithmAuto for supervised
	// tasks and k_means for clustering.
	Algorithm string

	// NClusters is the requested cluster count; clustering only.
	NClusters int
}

// validate rejects invalid task/target/algorithm combinations before any
// schema inference or fitting starts.
func (r *TrainingRequest) validate() error {
	if r.Dataset == nil {
		return errors.NewConfigurationError("dataset", nil, "dataset is required")
	}

	switch r.TaskType {
	case Clustering:
		if r.TargetColumn != "" {
			return errors.NewConfigurationError("target_column", r.TargetColumn,
				"clustering does not take a target column")
		}
		if r.Algorithm == AlgorithmAuto {
			return errors.NewConfigurationError("algorithm", r.Algorithm,
				"clustering has no ground truth to rank candidates against; request k_means directly")
		}
		if r.Algorithm != "" && r.Algorithm != AlgorithmKMeans {
			return errors.NewConfigurationError("algorithm", r.Algorithm,
				"not registered for clustering")
		}
		if r.NClusters < 2 {
			return errors.NewConfigurationError("n_clusters", r.NClusters,
				"cluster count must be at least 2")
		}

	case Classification, Regression:
		if r.TargetColumn == "" {
			return errors.NewConfigurationError("target_column", r.TargetColumn,
				"supervised tasks require a target column")
		}
		if !r.Dataset.HasColumn(r.TargetColumn) {
			return errors.NewConfigurationError("target_column", r.TargetColumn,
				"column not present in dataset")
		}
		if algo := r.algorithm(); algo != AlgorithmAuto {
			if _, ok := lookupCandidate(r.TaskType, algo); !ok {
				return errors.NewConfigurationError("algorithm", algo,
					"not registered for task type "+string(r.TaskType))
			}
		}

	default:
		return errors.NewConfigurationError("task_type", r.TaskType,
			"must be classification, regression or clustering")
	}
	return nil
}

// algorithm returns the effective algorithm identifier with defaults
// applied.
func (r *TrainingRequest) algorithm() string {
	if r.Algorithm == "" {
		if r.TaskType == Clustering {
			return AlgorithmKMeans
		}
		return AlgorithmAuto
	}
	return r.Algorithm
}
