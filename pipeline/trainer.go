package pipeline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/insightlab/automl/model"
	"github.com/insightlab/automl/pkg/errors"
	"github.com/insightlab/automl/pkg/log"
)

// candidateRun is one fitted candidate with its held-out score.
type candidateRun struct {
	name      string
	estimator model.Supervised
	metrics   EvaluationMetrics
	primary   float64
}

// trainSupervised fits the requested candidates on an 80/20 split and
// scores each on the held-out rows. classLabels is nil for regression.
// Fit failures are recorded per candidate; the run only fails when every
// candidate does.
func trainSupervised(req *TrainingRequest, X *mat.Dense, y *mat.VecDense, classLabels []string) (*candidateRun, []CandidateScore, []CandidateFailure, error) {
	logger := log.Component("trainer")

	candidates := candidatesFor(req.TaskType)
	if algo := req.algorithm(); algo != AlgorithmAuto {
		c, _ := lookupCandidate(req.TaskType, algo)
		candidates = []Candidate{c}
	}

	rows, _ := X.Dims()
	trainIdx, testIdx := trainTestSplit(rows)
	XTrain, XTest := subsetMatrix(X, trainIdx), subsetMatrix(X, testIdx)
	yTrain, yTest := subsetVec(y, trainIdx), subsetVec(y, testIdx)

	var fitCounts []int
	if classLabels != nil {
		fitCounts = classCounts(yTrain, len(classLabels))
	}

	ranking := primaryMetric(req.TaskType)
	var best *candidateRun
	var leaderboard []CandidateScore
	var failures []CandidateFailure
	causes := make(map[string]error)

	for _, candidate := range candidates {
		run, err := fitAndScore(candidate, XTrain, XTest, yTrain, yTest, classLabels, fitCounts, ranking)
		if err != nil {
			logger.Warn().Err(err).Str("algorithm", candidate.Name).Msg("candidate failed to fit")
			failures = append(failures, CandidateFailure{Algorithm: candidate.Name, Reason: err.Error()})
			causes[candidate.Name] = err
			continue
		}

		logger.Info().
			Str("algorithm", run.name).
			Float64(ranking, run.primary).
			Int("held_out_rows", len(testIdx)).
			Msg("candidate scored")

		leaderboard = append(leaderboard, CandidateScore{Algorithm: run.name, Metrics: run.metrics})
		// Strict comparison keeps the first-registered candidate on ties.
		if best == nil || run.primary > best.primary {
			best = run
		}
	}

	if best == nil {
		return nil, nil, nil, errors.NewTrainingFailedError(string(req.TaskType), causes)
	}
	return best, leaderboard, failures, nil
}

// fitAndScore fits one candidate on the training rows and evaluates it on
// the held-out rows. Any failure is wrapped as a ModelFitError for that
// candidate.
func fitAndScore(candidate Candidate, XTrain, XTest *mat.Dense, yTrain, yTest *mat.VecDense, classLabels []string, fitCounts []int, ranking string) (*candidateRun, error) {
	estimator := candidate.New()
	if err := estimator.Fit(XTrain, yTrain); err != nil {
		var fitErr *errors.ModelFitError
		if errors.As(err, &fitErr) {
			return nil, err
		}
		return nil, errors.NewModelFitError(candidate.Name, "fit failed", err)
	}

	pred, err := estimator.Predict(XTest)
	if err != nil {
		return nil, errors.NewModelFitError(candidate.Name, "prediction on held-out rows failed", err)
	}

	var em EvaluationMetrics
	if classLabels != nil {
		em, err = evaluateClassification(yTest, pred, classLabels, fitCounts)
	} else {
		em, err = evaluateRegression(yTest, pred)
	}
	if err != nil {
		return nil, errors.NewModelFitError(candidate.Name, "evaluation failed", err)
	}

	return &candidateRun{
		name:      candidate.Name,
		estimator: estimator,
		metrics:   em,
		primary:   em.Values[ranking],
	}, nil
}
