package pipeline

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/dataset"
	"github.com/insightlab/automl/metrics"
	"github.com/insightlab/automl/model"
	"github.com/insightlab/automl/pkg/errors"
	"github.com/insightlab/automl/preprocessing"
)

// Metric names used in EvaluationMetrics.Values.
const (
	MetricAccuracy  = "accuracy"
	MetricPrecision = "precision"
	MetricRecall    = "recall"
	MetricF1        = "f1_score"

	MetricR2   = "r2_score"
	MetricMSE  = "mse"
	MetricRMSE = "rmse"
	MetricMAE  = "mae"

	MetricSilhouette = "silhouette_score"
	MetricNClusters  = "n_clusters"
)

// ConfusionMatrixReport is the labeled confusion matrix attached to
// classification metrics. Rows are actual labels, columns predicted,
// both in first-seen label order.
type ConfusionMatrixReport struct {
	Labels []string `json:"labels"`
	Counts [][]int  `json:"counts"`
}

// EvaluationMetrics is the canonical metric set for one fitted candidate.
type EvaluationMetrics struct {
	Values          map[string]float64     `json:"values"`
	ConfusionMatrix *ConfusionMatrixReport `json:"confusion_matrix,omitempty"`
	ClusterSizes    []int                  `json:"cluster_sizes,omitempty"`
}

// CandidateScore is one leaderboard entry: a successfully fitted candidate
// and its held-out metrics.
type CandidateScore struct {
	Algorithm string            `json:"algorithm"`
	Metrics   EvaluationMetrics `json:"metrics"`
}

// CandidateFailure records a candidate that failed to fit and why. Failed
// candidates are excluded from the leaderboard.
type CandidateFailure struct {
	Algorithm string `json:"algorithm"`
	Reason    string `json:"reason"`
}

// TrainedModel is the fitted artifact of the chosen candidate together
// with the exact encoding used to produce its feature matrix, so new rows
// can be transformed identically at prediction time. It is owned by its
// TrainingResult and never shared across requests.
type TrainedModel struct {
	Algorithm string

	supervised model.Supervised
	clusterer  *model.KMeans

	encoder *preprocessing.Encoder
	labels  *preprocessing.LabelEncoder
}

// FeatureColumns returns the encoded feature names the model was fitted
// on.
func (tm *TrainedModel) FeatureColumns() []string {
	return tm.encoder.FeatureNames()
}

// Predict encodes raw rows with the stored transform and returns the raw
// model outputs: continuous values for regression, class indices for
// classification, cluster assignments for clustering.
func (tm *TrainedModel) Predict(ds *dataset.Dataset) ([]float64, error) {
	X, err := tm.encoder.Transform(ds)
	if err != nil {
		return nil, err
	}

	if tm.clusterer != nil {
		assignments, err := tm.clusterer.Predict(X)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(assignments))
		for i, a := range assignments {
			out[i] = float64(a)
		}
		return out, nil
	}

	pred, err := tm.supervised.Predict(X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, pred.Len())
	for i := range out {
		out[i] = pred.AtVec(i)
	}
	return out, nil
}

// PredictLabels predicts and decodes class labels. Classification models
// only.
func (tm *TrainedModel) PredictLabels(ds *dataset.Dataset) ([]string, error) {
	if tm.labels == nil {
		return nil, errors.NewValueError("TrainedModel.PredictLabels",
			"model has no label encoding; not a classification model")
	}
	pred, err := tm.Predict(ds)
	if err != nil {
		return nil, err
	}
	return tm.labels.InverseTransform(pred), nil
}

// TrainingResult is the immutable outcome of one training invocation. The
// persistence, report and insight collaborators consume it read-only.
type TrainingResult struct {
	ID           string    `json:"id"`
	TaskType     TaskType  `json:"task_type"`
	TargetColumn string    `json:"target_column,omitempty"`
	Algorithm    string    `json:"algorithm"`
	CreatedAt    time.Time `json:"created_at"`

	Model   *TrainedModel     `json:"-"`
	Metrics EvaluationMetrics `json:"metrics"`

	// Leaderboard holds every successfully fitted candidate's metrics,
	// in registration order; Failures the rest.
	Leaderboard []CandidateScore   `json:"leaderboard"`
	Failures    []CandidateFailure `json:"failures,omitempty"`

	FeatureColumns []string       `json:"feature_columns"`
	Schema         dataset.Schema `json:"schema"`
	TotalRows      int            `json:"total_rows"`
	RetainedRows   int            `json:"retained_rows"`
}

// classCounts tallies encoded class labels in a target vector.
func classCounts(y *mat.VecDense, nClasses int) []int {
	counts := make([]int, nClasses)
	for i := 0; i < y.Len(); i++ {
		idx := int(y.AtVec(i))
		if idx >= 0 && idx < nClasses {
			counts[idx]++
		}
	}
	return counts
}

// evaluateClassification scores predictions against held-out labels.
// fitCounts are the training-split class frequencies: for binary problems
// the less frequent fit-time label is the positive class; multiclass
// problems report macro averages.
func evaluateClassification(yTrue, yPred *mat.VecDense, classLabels []string, fitCounts []int) (EvaluationMetrics, error) {
	accuracy, err := metrics.Accuracy(yTrue, yPred)
	if err != nil {
		return EvaluationMetrics{}, err
	}

	cm, err := metrics.NewConfusionMatrix(yTrue, yPred, len(classLabels))
	if err != nil {
		return EvaluationMetrics{}, err
	}

	var precision, recall, f1 float64
	if len(classLabels) == 2 {
		positive := positiveClass(fitCounts)
		precision = cm.Precision(positive)
		recall = cm.Recall(positive)
		f1 = cm.F1(positive)
	} else {
		precision, recall, f1 = cm.MacroPrecisionRecallF1()
	}

	return EvaluationMetrics{
		Values: map[string]float64{
			MetricAccuracy:  accuracy,
			MetricPrecision: precision,
			MetricRecall:    recall,
			MetricF1:        f1,
		},
		ConfusionMatrix: &ConfusionMatrixReport{
			Labels: classLabels,
			Counts: cm.Counts,
		},
	}, nil
}

// positiveClass picks the binary positive class: the less frequent
// fit-time label, ties going to the later-seen one.
func positiveClass(fitCounts []int) int {
	if fitCounts[1] <= fitCounts[0] {
		return 1
	}
	return 0
}

// evaluateRegression scores predictions against held-out targets.
func evaluateRegression(yTrue, yPred *mat.VecDense) (EvaluationMetrics, error) {
	r2, err := metrics.R2Score(yTrue, yPred)
	if err != nil {
		return EvaluationMetrics{}, err
	}
	mse, err := metrics.MSE(yTrue, yPred)
	if err != nil {
		return EvaluationMetrics{}, err
	}
	rmse, err := metrics.RMSE(yTrue, yPred)
	if err != nil {
		return EvaluationMetrics{}, err
	}
	mae, err := metrics.MAE(yTrue, yPred)
	if err != nil {
		return EvaluationMetrics{}, err
	}

	return EvaluationMetrics{
		Values: map[string]float64{
			MetricR2:   r2,
			MetricMSE:  mse,
			MetricRMSE: rmse,
			MetricMAE:  mae,
		},
	}, nil
}

// evaluateClustering scores a k-means fit on the full matrix.
func evaluateClustering(X mat.Matrix, labels []int, k int) (EvaluationMetrics, error) {
	silhouette, err := metrics.Silhouette(X, labels)
	if err != nil {
		return EvaluationMetrics{}, err
	}

	return EvaluationMetrics{
		Values: map[string]float64{
			MetricSilhouette: silhouette,
			MetricNClusters:  float64(k),
		},
		ClusterSizes: metrics.ClusterSizes(labels, k),
	}, nil
}
