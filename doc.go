// Package linscore provides prediction-time logic for fitted linear
// classifiers and regressors, designed for backend services that score
// models trained elsewhere.
//
// A fitted model is a weight matrix (primal or dual), an optional intercept
// and, for classifiers, the label mappings and loss it was trained with.
// linscore turns that state into decision scores, calibrated probabilities,
// decoded labels and sparsity statistics, for dense gonum matrices and for
// sparse CSR input alike.
//
// # Quick Start
//
//	mw, err := model.LoadWeights("clf.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	clf, err := linear.ClassifierFromWeights(mw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	labels, err := clf.Predict(X)
//	proba, err := clf.PredictProba(X)
//
// # Probability models
//
// PredictProba is defined for log loss (sigmoid for binary problems,
// softmax or normalised one-vs-rest sigmoids for multiclass problems) and
// for modified Huber loss on binary problems. Every other combination
// returns an *errors.UnsupportedConfigurationError.
//
// # Packages
//
//   - linear: Classifier and Regressor scoring engines
//   - preprocessing: LabelEncoder and LabelBinarizer
//   - metrics: accuracy, log loss, MSE, R²
//   - core/model: model file format and capability interfaces
//   - core/parallel: row fan-out for large inputs
//   - pkg/errors: structured error types (cockroachdb/errors)
//   - pkg/log: structured logging (zerolog)
//   - pkg/telemetry: Prometheus metrics
//   - pkg/dataset: CSV and LIBSVM readers
//   - pkg/report: calibration plots (gonum/plot)
//   - cmd/linscore: command-line scorer
package linscore
