package linear

import (
	"cmp"
	"math"
	"time"

	"github.com/YuminosukeSato/linscore/core/model"
	"github.com/YuminosukeSato/linscore/metrics"
	"github.com/YuminosukeSato/linscore/pkg/errors"
	"github.com/YuminosukeSato/linscore/pkg/log"
	"github.com/YuminosukeSato/linscore/preprocessing"
	"gonum.org/v1/gonum/mat"
)

// posLabel はバイナライザの陽性ラベル
const posLabel = 1

// Classifier は学習済み線形分類器の推論を行う。
// ラベル型 L の値は LabelEncoder で 0..n_classes-1 に、さらに LabelBinarizer で
// neg/pos ラベルのベクトルに写像される。
type Classifier[L cmp.Ordered] struct {
	Estimator

	encoder   *preprocessing.LabelEncoder[L]
	binarizer *preprocessing.LabelBinarizer
	nClasses  int
	nVectors  int
}

var (
	_ model.ClassificationModel[string] = (*Classifier[string])(nil)
	_ model.WeightExporter              = (*Classifier[string])(nil)
)

// NewClassifier は重みとラベル写像が未設定の Classifier を作成する
func NewClassifier[L cmp.Ordered](opts ...Option) *Classifier[L] {
	return &Classifier[L]{Estimator: newEstimator("Classifier", opts)}
}

// SetLabelTransformers fits the label encoder on y and the binarizer on the
// encoded labels, and returns the encoded labels together with n_classes and
// n_vectors (1 for binary problems, n_classes otherwise).
func (c *Classifier[L]) SetLabelTransformers(y []L, negLabel int) (yEnc []int, nClasses, nVectors int, err error) {
	start := time.Now()
	defer func() { c.track(log.OperationSetLabels, len(y), start, err) }()

	enc := preprocessing.NewLabelEncoder[L]()
	yEnc, err = enc.FitTransform(y)
	if err != nil {
		return nil, 0, 0, err
	}
	if enc.NClasses() < 2 {
		return nil, 0, 0, errors.NewValidationError("y", "at least two distinct classes are required", enc.NClasses())
	}
	bin, err := preprocessing.NewLabelBinarizer(negLabel, posLabel)
	if err != nil {
		return nil, 0, 0, err
	}
	if err := bin.Fit(yEnc); err != nil {
		return nil, 0, 0, err
	}
	c.install(enc, bin)
	return yEnc, c.nClasses, c.nVectors, nil
}

// SetLabelMappings installs pre-built label mappings, e.g. restored from a
// model file. The binarizer must cover exactly the encoder's indices.
func (c *Classifier[L]) SetLabelMappings(enc *preprocessing.LabelEncoder[L], bin *preprocessing.LabelBinarizer) error {
	if enc == nil || bin == nil {
		return errors.NewValidationError("label mappings", "encoder and binarizer are both required", nil)
	}
	k := enc.NClasses()
	if k < 2 {
		return errors.NewValidationError("classes", "at least two classes are required", k)
	}
	classes := bin.Classes()
	if len(classes) != k {
		return errors.NewDimensionError("Classifier.SetLabelMappings", k, len(classes), 1)
	}
	for i, ci := range classes {
		if ci != i {
			return errors.NewValidationError("binarizer classes", "must be the encoded indices 0..n_classes-1", classes)
		}
	}
	c.install(enc, bin)
	return nil
}

func (c *Classifier[L]) install(enc *preprocessing.LabelEncoder[L], bin *preprocessing.LabelBinarizer) {
	c.encoder = enc
	c.binarizer = bin
	c.nClasses = enc.NClasses()
	c.nVectors = c.nClasses
	if c.nClasses <= 2 {
		c.nVectors = 1
	}
	c.logger.Debug("label mappings installed",
		log.ClassesKey, c.nClasses,
		log.VectorsKey, c.nVectors,
	)
}

// Classes は学習時のクラスラベル（昇順）を返す
func (c *Classifier[L]) Classes() []L {
	if c.encoder == nil {
		return nil
	}
	return c.encoder.Classes()
}

// NClasses はクラス数を返す。ラベル写像が未設定なら 0
func (c *Classifier[L]) NClasses() int { return c.nClasses }

// NVectors は学習すべき重みベクトルの本数を返す
func (c *Classifier[L]) NVectors() int { return c.nVectors }

// Loss returns the configured loss.
func (c *Classifier[L]) Loss() LossKind { return c.cfg.loss }

// Multinomial reports whether multiclass probabilities use softmax.
func (c *Classifier[L]) Multinomial() bool { return c.cfg.multinomial }

// DecisionFunction returns the raw scores X·Wᵗ + b. A weight matrix with
// exactly two rows is treated as a symmetric binary pair and only row 1
// is used, giving a single score column.
func (c *Classifier[L]) DecisionFunction(X mat.Matrix) (scores *mat.Dense, err error) {
	start := time.Now()
	defer func() { c.track(log.OperationDecisionFunction, rowsOf(X), start, err) }()
	return c.decisionFunction("DecisionFunction", X)
}

func (c *Classifier[L]) decisionFunction(method string, X mat.Matrix) (*mat.Dense, error) {
	W, err := c.primal(method)
	if err != nil {
		return nil, err
	}
	op := c.name + "." + method
	if X == nil {
		return nil, errors.NewValueError(op, "X is nil")
	}

	rows, cols := c.weights.Dims()
	w, b := W, c.intercept
	switch {
	case rows == 1 || rows > 2:
	case rows == 2:
		w = W.Slice(1, 2, 0, cols).(*mat.Dense)
		if b != nil {
			b = b[len(b)-1:]
		}
	default:
		return nil, errors.NewInvalidModelShapeError(op, rows, cols, "weight matrix has no rows")
	}
	return c.score(op, X, w, b)
}

// PredictProba returns per-class probabilities, one row per sample, each
// row summing to 1. Binary models give two columns ordered [negative,
// positive]. Only log loss (and modified Huber for binary problems) defines
// a probability model.
func (c *Classifier[L]) PredictProba(X mat.Matrix) (proba *mat.Dense, err error) {
	start := time.Now()
	defer func() { c.track(log.OperationPredictProba, rowsOf(X), start, err) }()
	return c.predictProba("PredictProba", "predict_proba", X)
}

// opName はエラーメッセージに載せる操作名
func (c *Classifier[L]) predictProba(method, opName string, X mat.Matrix) (*mat.Dense, error) {
	if err := c.requireLabels(method); err != nil {
		return nil, err
	}
	op := c.name + "." + method
	k, loss := c.nClasses, c.cfg.loss
	if !loss.SupportsProba(k) {
		return nil, unsupportedProba(opName, loss, k)
	}

	scores, err := c.decisionFunction(method, X)
	if err != nil {
		return nil, err
	}
	_, width := scores.Dims()

	var proba *mat.Dense
	if k > 2 {
		if width != k {
			r, f := c.weights.Dims()
			return nil, errors.NewInvalidModelShapeError(op, r, f, "number of score columns does not match n_classes")
		}
		if c.cfg.multinomial {
			softmaxRows(scores)
		} else {
			ovrNormalize(scores)
		}
		proba = scores
	} else {
		if width != 1 {
			r, f := c.weights.Dims()
			return nil, errors.NewInvalidModelShapeError(op, r, f, "binary model must produce a single score column")
		}
		link := sigmoid
		if loss == LossModifiedHuber {
			link = modifiedHuberProba
		}
		proba = binaryProba(scores, link)
	}

	if err := errors.CheckMatrix(op, proba); err != nil {
		return nil, err
	}
	return proba, nil
}

// PredictLogProba は PredictProba の要素ごとの自然対数を返す
func (c *Classifier[L]) PredictLogProba(X mat.Matrix) (logProba *mat.Dense, err error) {
	start := time.Now()
	defer func() { c.track(log.OperationPredictLogProba, rowsOf(X), start, err) }()

	proba, err := c.predictProba("PredictLogProba", "predict_log_proba", X)
	if err != nil {
		return nil, err
	}
	proba.Apply(func(_, _ int, v float64) float64 { return math.Log(v) }, proba)
	return proba, nil
}

// Predict returns the predicted label for each row of X. Scores are decoded
// through the binarizer, then through the label encoder.
func (c *Classifier[L]) Predict(X mat.Matrix) (labels []L, err error) {
	start := time.Now()
	defer func() { c.track(log.OperationPredict, rowsOf(X), start, err) }()
	return c.predict(X)
}

func (c *Classifier[L]) predict(X mat.Matrix) ([]L, error) {
	if err := c.requireLabels("Predict"); err != nil {
		return nil, err
	}
	scores, err := c.decisionFunction("Predict", X)
	if err != nil {
		return nil, err
	}
	indices, err := c.binarizer.InverseTransform(scores)
	if err != nil {
		return nil, err
	}
	return c.encoder.InverseTransform(indices)
}

// Score はXに対する平均正解率を返す
func (c *Classifier[L]) Score(X mat.Matrix, y []L) (acc float64, err error) {
	start := time.Now()
	defer func() { c.track(log.OperationScore, rowsOf(X), start, err) }()

	pred, err := c.predict(X)
	if err != nil {
		return 0, err
	}
	acc, err = metrics.Accuracy(y, pred)
	if err != nil {
		return 0, err
	}
	c.logger.Debug("score computed", log.AccuracyKey, acc)
	return acc, nil
}

func (c *Classifier[L]) requireLabels(method string) error {
	if err := c.state.RequireFitted(c.name, method); err != nil {
		return err
	}
	if c.encoder == nil || c.binarizer == nil {
		return errors.NewNotFittedError(c.name+" label mappings", method)
	}
	return nil
}
