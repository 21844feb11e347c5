package pipeline

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/dataset"
	"github.com/insightlab/automl/model"
	"github.com/insightlab/automl/pkg/errors"
	"github.com/insightlab/automl/pkg/log"
	"github.com/insightlab/automl/preprocessing"
)

// Train runs the full pipeline for one request: infer schema, encode,
// split if supervised, fit and select candidates, evaluate, and assemble
// the TrainingResult. It runs synchronously; concurrent requests are
// independent because all mutable state is owned by the invocation.
func Train(req *TrainingRequest) (*TrainingResult, error) {
	logger := log.Component("pipeline")
	started := time.Now()

	if err := req.validate(); err != nil {
		return nil, err
	}

	schema, err := dataset.InferSchema(req.Dataset)
	if err != nil {
		return nil, err
	}

	if req.TaskType == Regression {
		if cs := schema[req.TargetColumn]; cs.Type != dataset.Numeric {
			return nil, errors.NewConfigurationError("target_column", req.TargetColumn,
				"regression target must be a numeric column, inferred "+string(cs.Type))
		}
	}

	encoder, fm, err := preprocessing.Fit(req.Dataset, schema, req.TargetColumn)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("task", string(req.TaskType)).
		Int("total_rows", req.Dataset.RowCount()).
		Int("retained_rows", fm.Rows()).
		Int("features", fm.Features()).
		Msg("dataset encoded")

	result := &TrainingResult{
		ID:             uuid.NewString(),
		TaskType:       req.TaskType,
		TargetColumn:   req.TargetColumn,
		CreatedAt:      started,
		FeatureColumns: fm.FeatureNames,
		Schema:         schema,
		TotalRows:      req.Dataset.RowCount(),
		RetainedRows:   fm.Rows(),
	}

	switch req.TaskType {
	case Clustering:
		if err := trainClustering(req, fm, encoder, result); err != nil {
			return nil, err
		}
	default:
		if err := trainSupervisedTask(req, fm, encoder, result); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("task", string(req.TaskType)).
		Str("algorithm", result.Algorithm).
		Dur("elapsed", time.Since(started)).
		Msg("training finished")

	return result, nil
}

func trainSupervisedTask(req *TrainingRequest, fm *preprocessing.FeatureMatrix, encoder *preprocessing.Encoder, result *TrainingResult) error {
	var labelEncoder *preprocessing.LabelEncoder
	var classLabels []string

	target, err := targetVector(req, fm, &labelEncoder, &classLabels)
	if err != nil {
		return err
	}

	best, leaderboard, failures, err := trainSupervised(req, fm.X, target, classLabels)
	if err != nil {
		return err
	}

	result.Algorithm = best.name
	result.Metrics = best.metrics
	result.Leaderboard = leaderboard
	result.Failures = failures
	result.Model = &TrainedModel{
		Algorithm:  best.name,
		supervised: best.estimator,
		encoder:    encoder,
		labels:     labelEncoder,
	}
	return nil
}

func targetVector(req *TrainingRequest, fm *preprocessing.FeatureMatrix, labelEncoder **preprocessing.LabelEncoder, classLabels *[]string) (*mat.VecDense, error) {
	if req.TaskType == Classification {
		labels, err := preprocessing.TargetLabels(req.Dataset, req.TargetColumn, fm.RetainedRows)
		if err != nil {
			return nil, err
		}
		le := preprocessing.NewLabelEncoder()
		encoded := le.FitTransform(labels)
		*labelEncoder = le
		*classLabels = le.Classes()
		return encoded, nil
	}
	return preprocessing.NumericTarget(req.Dataset, req.TargetColumn, fm.RetainedRows)
}

// trainClustering fits k-means on the full matrix; there is no held-out
// split because clustering has no ground truth to score against.
func trainClustering(req *TrainingRequest, fm *preprocessing.FeatureMatrix, encoder *preprocessing.Encoder, result *TrainingResult) error {
	km := model.NewKMeans(req.NClusters, model.WithKMeansSeed(randomSeed))
	if err := km.Fit(fm.X); err != nil {
		return errors.NewTrainingFailedError(string(Clustering), map[string]error{AlgorithmKMeans: err})
	}

	em, err := evaluateClustering(fm.X, km.Labels(), req.NClusters)
	if err != nil {
		return errors.NewTrainingFailedError(string(Clustering), map[string]error{AlgorithmKMeans: err})
	}

	result.Algorithm = AlgorithmKMeans
	result.Metrics = em
	result.Leaderboard = []CandidateScore{{Algorithm: AlgorithmKMeans, Metrics: em}}
	result.Model = &TrainedModel{
		Algorithm: AlgorithmKMeans,
		clusterer: km,
		encoder:   encoder,
	}
	return nil
}
