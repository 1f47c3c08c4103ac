package linear

import (
	"time"

	"github.com/YuminosukeSato/linscore/core/model"
	"github.com/YuminosukeSato/linscore/metrics"
	"github.com/YuminosukeSato/linscore/pkg/errors"
	"github.com/YuminosukeSato/linscore/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// Regressor は学習済み線形回帰器の推論を行う。
// 重み行列の各行が1つのターゲットに対応する
type Regressor struct {
	Estimator

	outputs2D bool
}

var (
	_ model.RegressionModel = (*Regressor)(nil)
	_ model.WeightExporter  = (*Regressor)(nil)
)

// NewRegressor は重みが未設定の Regressor を作成する
func NewRegressor(opts ...Option) *Regressor {
	return &Regressor{Estimator: newEstimator("Regressor", opts)}
}

// SetOutputs2D records whether the model was fitted on a 2-D target matrix.
// When false, Predict flattens its result into a vector.
func (r *Regressor) SetOutputs2D(outputs2D bool) {
	r.outputs2D = outputs2D
}

// Outputs2D reports whether Predict returns an (n × targets) matrix.
func (r *Regressor) Outputs2D() bool { return r.outputs2D }

// Predict computes X·Wᵗ + b. Models fitted on 1-D targets return a
// *mat.VecDense (row-major flattening of the score matrix); otherwise the
// (n_samples × n_targets) *mat.Dense is returned unchanged.
func (r *Regressor) Predict(X mat.Matrix) (pred mat.Matrix, err error) {
	start := time.Now()
	defer func() { r.track(log.OperationPredict, rowsOf(X), start, err) }()
	return r.predict(X)
}

func (r *Regressor) predict(X mat.Matrix) (mat.Matrix, error) {
	W, err := r.primal("Predict")
	if err != nil {
		return nil, err
	}
	op := r.name + ".Predict"
	if X == nil {
		return nil, errors.NewValueError(op, "X is nil")
	}
	scores, err := r.score(op, X, W, r.intercept)
	if err != nil {
		return nil, err
	}
	if r.outputs2D {
		return scores, nil
	}
	rows, cols := scores.Dims()
	flat := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		flat = append(flat, scores.RawRowView(i)...)
	}
	return mat.NewVecDense(len(flat), flat), nil
}

// Score は決定係数 R² を返す。複数ターゲットの場合は一様平均
func (r *Regressor) Score(X, y mat.Matrix) (r2 float64, err error) {
	start := time.Now()
	defer func() { r.track(log.OperationScore, rowsOf(X), start, err) }()

	pred, err := r.predict(X)
	if err != nil {
		return 0, err
	}
	r2, err = metrics.R2ScoreMatrix(y, pred)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("score computed", log.R2ScoreKey, r2)
	return r2, nil
}
