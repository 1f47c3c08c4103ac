package linear

import (
	"context"
	"time"

	"github.com/YuminosukeSato/linscore/core/model"
	"github.com/YuminosukeSato/linscore/pkg/errors"
	"github.com/YuminosukeSato/linscore/pkg/log"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// Estimator holds the fitted state shared by classifiers and regressors:
// the weight matrix, the optional intercept and the support-vector marker.
// Everything is installed once and read-only afterwards, so concurrent
// scoring calls need no locking.
type Estimator struct {
	state *model.StateManager

	name string
	id   string
	cfg  config

	weights        WeightSource
	intercept      []float64 // nil when fitted without a bias term
	supportVectors bool
	nSamples       int

	logger log.Logger
}

func newEstimator(name string, opts []Option) Estimator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	id := uuid.NewString()
	logger := cfg.logger
	if logger == nil {
		logger = log.GetLoggerWithName("linear")
	}
	return Estimator{
		state:  model.NewStateManager(),
		name:   name,
		id:     id,
		cfg:    cfg,
		logger: logger.With(log.ModelNameKey, name, log.EstimatorIDKey, id),
	}
}

// ID returns the identifier attached to this estimator's log records.
func (e *Estimator) ID() string { return e.id }

// IsFitted reports whether weights have been installed.
func (e *Estimator) IsFitted() bool { return e.state.IsFitted() }

// Weights returns the installed weight source.
func (e *Estimator) Weights() WeightSource { return e.weights }

// Intercept returns a copy of the intercept, or nil when there is none.
func (e *Estimator) Intercept() []float64 {
	if e.intercept == nil {
		return nil
	}
	return append([]float64(nil), e.intercept...)
}

// HasIntercept reports whether the estimator was fitted with a bias term.
func (e *Estimator) HasIntercept() bool { return e.intercept != nil }

// SetWeights installs fitted weights. intercept may be nil; otherwise its
// length must equal the number of weight rows, or be 1 for two-row weights
// (a scalar bias).
func (e *Estimator) SetWeights(ws WeightSource, intercept []float64) error {
	if ws.Matrix() == nil {
		return errors.NewValidationError("weights", "weight matrix is required", nil)
	}
	rows, cols := ws.Dims()
	// a binary model stored with two weight rows may carry a single bias
	if intercept != nil && len(intercept) != rows && !(rows == 2 && len(intercept) == 1) {
		return errors.NewDimensionError(e.name+".SetWeights", rows, len(intercept), 0)
	}
	e.weights = ws
	if intercept != nil {
		e.intercept = append([]float64(nil), intercept...)
	} else {
		e.intercept = nil
	}
	nFeatures := cols
	if ws.Kind() == WeightsDual {
		nFeatures = 0
	}
	e.state.SetFitted(nFeatures, e.nSamples)
	e.logger.Debug("weights installed",
		log.VectorsKey, rows,
		log.FeaturesKey, cols,
		"weights.kind", ws.Kind().String(),
		"intercept", intercept != nil,
	)
	return nil
}

// SetSupportVectors marks the estimator as support-vector based and records
// the number of training samples, which NNonzero(true) divides by.
func (e *Estimator) SetSupportVectors(nSamples int) error {
	if nSamples <= 0 {
		return errors.NewValidationError("n_samples", "must be positive", nSamples)
	}
	e.supportVectors = true
	e.nSamples = nSamples
	if e.state.IsFitted() {
		nFeatures, _ := e.state.GetDimensions()
		e.state.SetFitted(nFeatures, nSamples)
	}
	return nil
}

// NNonzero counts the weight columns holding at least one non-zero entry
// in any row. With percentage, the count is divided by the number of
// training samples for support-vector estimators and by the number of
// weight columns otherwise.
func (e *Estimator) NNonzero(percentage bool) (n float64, err error) {
	start := time.Now()
	defer func() { e.track(log.OperationNNonzero, 0, start, err) }()

	if err := e.state.RequireFitted(e.name, "NNonzero"); err != nil {
		return 0, err
	}
	rows, cols := e.weights.Dims()
	w := e.weights.Matrix()

	count := 0
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			if w.At(i, j) != 0 {
				count++
				break
			}
		}
	}
	if !percentage {
		return float64(count), nil
	}

	denom := cols
	if e.supportVectors {
		denom = e.nSamples
	}
	if denom == 0 {
		return 0, errors.NewValueError(e.name+".NNonzero", "cannot normalise by zero columns")
	}
	return float64(count) / float64(denom), nil
}

// primal returns the coefficient matrix or an error when the estimator
// is unfitted or holds dual weights only.
func (e *Estimator) primal(method string) (*mat.Dense, error) {
	if err := e.state.RequireFitted(e.name, method); err != nil {
		return nil, err
	}
	if e.weights.Kind() != WeightsPrimal {
		return nil, errors.NewModelError(e.name+"."+method, "primal coefficients required",
			errors.Newf("installed weights are %s", e.weights.Kind()))
	}
	return e.weights.Matrix(), nil
}

// score computes X·Wᵗ plus the intercept slice for the given rows of W.
func (e *Estimator) score(op string, X mat.Matrix, W *mat.Dense, intercept []float64) (*mat.Dense, error) {
	n, f := X.Dims()
	_, wf := W.Dims()
	if f != wf {
		return nil, errors.NewDimensionError(op, wf, f, 1)
	}
	if n == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	out, sparse := safeSparseDot(X, W, e.cfg.parallelThreshold, e.cfg.workers)
	addIntercept(out, intercept)
	if e.logger.Enabled(context.Background(), log.LevelDebug) {
		e.logger.Debug("scores computed",
			log.OperationKey, op,
			log.SamplesKey, n,
			log.FeaturesKey, f,
			log.SparseKey, sparse,
		)
	}
	return out, nil
}

func (e *Estimator) track(op string, rows int, start time.Time, err error) {
	elapsed := time.Since(start)
	if e.cfg.observer != nil {
		e.cfg.observer.Observe(e.name, op, rows, elapsed, err)
	}
	if err != nil {
		e.logger.Debug(op+" failed", err, log.OperationKey, op, log.SamplesKey, rows)
	}
}

func rowsOf(X mat.Matrix) int {
	if X == nil {
		return 0
	}
	r, _ := X.Dims()
	return r
}
