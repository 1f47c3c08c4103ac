// Package telemetry exports Prometheus metrics for scoring operations.
//
// A Recorder owns a private registry so that several recorders can coexist
// in one process (tests, embedded use) without duplicate registration.
package telemetry

import (
	"sync"
	"time"

	"github.com/YuminosukeSato/linscore/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects per-operation counters and latency histograms.
// It satisfies linear.Observer.
type Recorder struct {
	registry *prometheus.Registry

	Predictions *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	Rows        *prometheus.CounterVec
	Duration    *prometheus.HistogramVec

	mu       sync.Mutex
	lastErrs map[string]string
}

// NewRecorder は新しいレジストリにメトリクスを登録した Recorder を作成する
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linscore_predictions_total",
				Help: "Total number of scoring operations by model and operation",
			},
			[]string{"model", "operation"},
		),

		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linscore_prediction_errors_total",
				Help: "Total number of failed scoring operations by error type",
			},
			[]string{"model", "operation", "error_type"},
		),

		Rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linscore_predicted_rows_total",
				Help: "Total number of input rows scored",
			},
			[]string{"model", "operation"},
		),

		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linscore_prediction_duration_seconds",
				Help:    "Duration of scoring operations in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"model", "operation"},
		),

		lastErrs: make(map[string]string),
	}

	r.registry.MustRegister(r.Predictions, r.Errors, r.Rows, r.Duration)
	return r
}

// Registry returns the registry the metrics are registered with.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records one scoring operation.
func (r *Recorder) Observe(modelName, operation string, rows int, elapsed time.Duration, err error) {
	r.Predictions.WithLabelValues(modelName, operation).Inc()
	r.Duration.WithLabelValues(modelName, operation).Observe(elapsed.Seconds())
	if err != nil {
		errType := ErrorType(err)
		r.Errors.WithLabelValues(modelName, operation, errType).Inc()
		r.mu.Lock()
		r.lastErrs[modelName+"/"+operation] = errType
		r.mu.Unlock()
		return
	}
	r.Rows.WithLabelValues(modelName, operation).Add(float64(rows))
}

// LastErrorType は model/operation の直近のエラー種別を返す。なければ空文字
func (r *Recorder) LastErrorType(modelName, operation string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErrs[modelName+"/"+operation]
}

// WriteTextfile writes the current metrics in the Prometheus text format,
// for collection by node_exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, "write metrics textfile %s", path)
	}
	return nil
}

// ErrorType maps an error onto a low-cardinality label value.
func ErrorType(err error) string {
	var (
		unsupported *errors.UnsupportedConfigurationError
		shape       *errors.InvalidModelShapeError
		dim         *errors.DimensionError
		notFitted   *errors.NotFittedError
		numerical   *errors.NumericalInstabilityError
		validation  *errors.ValidationError
		value       *errors.ValueError
	)
	switch {
	case errors.As(err, &unsupported):
		return "unsupported_configuration"
	case errors.As(err, &shape):
		return "invalid_model_shape"
	case errors.As(err, &dim):
		return "shape_mismatch"
	case errors.As(err, &notFitted):
		return "not_fitted"
	case errors.As(err, &numerical):
		return "numerical_instability"
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &value):
		return "value"
	default:
		return "other"
	}
}
