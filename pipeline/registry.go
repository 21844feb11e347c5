package pipeline

import (
	"github.com/insightlab/automl/model"
)

// Algorithm identifiers, the registry keys of TrainingRequest.Algorithm.
const (
	AlgorithmLogisticRegression = "logistic_regression"
	AlgorithmLinearRegression   = "linear_regression"
	AlgorithmRandomForest       = "random_forest"
	AlgorithmSVM                = "svm"
	AlgorithmKMeans             = "k_means"
)

// Candidate binds a registry key to an estimator factory. Each Fit call
// builds a fresh estimator, so concurrent requests never share model state.
type Candidate struct {
	Name string
	New  func() model.Supervised
}

// The candidate registry is fixed at startup and read-only afterwards;
// concurrent requests read it without locking. Slice order is the
// registration order used for tie-breaking in auto mode.
var (
	classificationCandidates = []Candidate{
		{Name: AlgorithmLogisticRegression, New: func() model.Supervised {
			return model.NewLogisticRegression()
		}},
		{Name: AlgorithmRandomForest, New: func() model.Supervised {
			return model.NewRandomForestClassifier(model.WithForestSeed(randomSeed))
		}},
		{Name: AlgorithmSVM, New: func() model.Supervised {
			return model.NewSVMClassifier(model.WithSVMSeed(randomSeed))
		}},
	}

	regressionCandidates = []Candidate{
		{Name: AlgorithmLinearRegression, New: func() model.Supervised {
			return model.NewLinearRegression()
		}},
		{Name: AlgorithmRandomForest, New: func() model.Supervised {
			return model.NewRandomForestRegressor(model.WithForestSeed(randomSeed))
		}},
		{Name: AlgorithmSVM, New: func() model.Supervised {
			return model.NewSVMRegressor(model.WithSVMSeed(randomSeed))
		}},
	}
)

// candidatesFor returns the registered candidates for a supervised task in
// registration order.
func candidatesFor(task TaskType) []Candidate {
	switch task {
	case Classification:
		return classificationCandidates
	case Regression:
		return regressionCandidates
	}
	return nil
}

// lookupCandidate finds a registered candidate by name.
func lookupCandidate(task TaskType, name string) (Candidate, bool) {
	for _, c := range candidatesFor(task) {
		if c.Name == name {
			return c, true
		}
	}
	return Candidate{}, false
}

// primaryMetric is the ranking metric used to select the best candidate in
// auto mode.
func primaryMetric(task TaskType) string {
	if task == Classification {
		return MetricAccuracy
	}
	return MetricR2
}
