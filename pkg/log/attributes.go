// Package log defines standard attribute keys for inference operations.
//
// The keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples") so log pipelines can filter on them.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of estimator.
	// Examples: "Classifier", "Regressor"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific estimator instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	ComponentKey = "ml.component"

	// LossKey records the loss the estimator was fitted with.
	LossKey = "model.loss"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the input.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the input.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of classes seen at fit time.
	ClassesKey = "data.classes"

	// VectorsKey indicates the number of weight vectors (rows of the weight matrix).
	VectorsKey = "model.n_vectors"

	// SparseKey is true when the input took the sparse multiplication path.
	SparseKey = "data.sparse"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy.
	AccuracyKey = "metrics.accuracy"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// NonZeroKey records the number (or share) of non-zero weight columns.
	NonZeroKey = "model.n_nonzero"
)

// Error Context
const (
	// ErrorKey carries the error value passed as the first field to Error.
	ErrorKey = "error"

	// StacktraceKey contains stack trace information extracted from cockroachdb/errors.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute value constants for common operations.
const (
	OperationDecisionFunction = "decision_function"
	OperationPredict          = "predict"
	OperationPredictProba     = "predict_proba"
	OperationPredictLogProba  = "predict_log_proba"
	OperationScore            = "score"
	OperationNNonzero         = "n_nonzero"
	OperationSetLabels        = "set_label_transformers"
)
