package linear

import (
	"cmp"
	"fmt"

	"github.com/YuminosukeSato/linscore/core/model"
	"github.com/YuminosukeSato/linscore/pkg/errors"
	"github.com/YuminosukeSato/linscore/preprocessing"
	"gonum.org/v1/gonum/mat"
)

// ClassifierFromWeights は保存されたモデル状態から Classifier[string] を復元する
func ClassifierFromWeights(mw *model.ModelWeights, opts ...Option) (*Classifier[string], error) {
	return ClassifierFromWeightsAs(mw, func(s string) (string, error) { return s, nil }, opts...)
}

// ClassifierFromWeightsAs restores a classifier whose labels are parsed from
// the stored class names by parse. Parsed classes must be strictly
// increasing in L's own ordering.
//
// 使用例:
//
//	clf, err := linear.ClassifierFromWeightsAs(mw, strconv.Atoi)
func ClassifierFromWeightsAs[L cmp.Ordered](mw *model.ModelWeights, parse func(string) (L, error), opts ...Option) (*Classifier[L], error) {
	if err := checkModelType(mw, model.ModelTypeClassifier); err != nil {
		return nil, err
	}
	opts, err := weightOptions(mw, opts)
	if err != nil {
		return nil, err
	}

	c := NewClassifier[L](opts...)
	if err := installWeights(&c.Estimator, mw); err != nil {
		return nil, err
	}

	classes := make([]L, len(mw.Classes))
	for i, s := range mw.Classes {
		v, err := parse(s)
		if err != nil {
			return nil, errors.Wrapf(err, "parse class %q", s)
		}
		classes[i] = v
	}
	enc, err := preprocessing.NewLabelEncoderFromClasses(classes)
	if err != nil {
		return nil, err
	}
	bin, err := preprocessing.NewLabelBinarizer(mw.NegLabelOrDefault(), posLabel)
	if err != nil {
		return nil, err
	}
	indices := make([]int, len(classes))
	for i := range indices {
		indices[i] = i
	}
	if err := bin.Fit(indices); err != nil {
		return nil, err
	}
	if err := c.SetLabelMappings(enc, bin); err != nil {
		return nil, err
	}
	return c, nil
}

// RegressorFromWeights は保存されたモデル状態から Regressor を復元する
func RegressorFromWeights(mw *model.ModelWeights, opts ...Option) (*Regressor, error) {
	if err := checkModelType(mw, model.ModelTypeRegressor); err != nil {
		return nil, err
	}
	opts, err := weightOptions(mw, opts)
	if err != nil {
		return nil, err
	}
	r := NewRegressor(opts...)
	if err := installWeights(&r.Estimator, mw); err != nil {
		return nil, err
	}
	r.SetOutputs2D(mw.Outputs2D)
	return r, nil
}

// ExportWeights は分類器の状態を ModelWeights に書き出す。
// クラスラベルは fmt.Sprint で文字列化される
func (c *Classifier[L]) ExportWeights() (*model.ModelWeights, error) {
	if err := c.requireLabels("ExportWeights"); err != nil {
		return nil, err
	}
	mw := c.exportWeights(model.ModelTypeClassifier)
	for _, cl := range c.encoder.Classes() {
		mw.Classes = append(mw.Classes, fmt.Sprint(cl))
	}
	neg := c.binarizer.NegLabel()
	mw.NegLabel = &neg
	return mw, nil
}

// ExportWeights は回帰器の状態を ModelWeights に書き出す
func (r *Regressor) ExportWeights() (*model.ModelWeights, error) {
	if err := r.state.RequireFitted(r.name, "ExportWeights"); err != nil {
		return nil, err
	}
	mw := r.exportWeights(model.ModelTypeRegressor)
	mw.Outputs2D = r.outputs2D
	return mw, nil
}

func (e *Estimator) exportWeights(modelType string) *model.ModelWeights {
	mw := &model.ModelWeights{
		ModelType:      modelType,
		Version:        model.CurrentVersion,
		Intercept:      e.Intercept(),
		Loss:           e.cfg.loss.String(),
		Multinomial:    e.cfg.multinomial,
		SupportVectors: e.supportVectors,
		NSamples:       e.nSamples,
		IsFitted:       true,
		Metadata:       map[string]interface{}{"estimator_id": e.id},
	}
	rows := denseRows(e.weights.Matrix())
	if e.weights.Kind() == WeightsDual {
		mw.DualCoef = rows
	} else {
		mw.Coef = rows
	}
	return mw
}

func checkModelType(mw *model.ModelWeights, want string) error {
	if mw == nil {
		return errors.NewValidationError("model weights", "is required", nil)
	}
	if err := mw.Validate(); err != nil {
		return err
	}
	if mw.ModelType != want {
		return errors.NewValidationError("model_type", "must be "+want, mw.ModelType)
	}
	if !mw.IsFitted {
		return errors.NewNotFittedError(mw.ModelType, "FromWeights")
	}
	return nil
}

// weightOptions prepends the loss and multiclass mode stored in mw, so that
// caller options still take precedence.
func weightOptions(mw *model.ModelWeights, opts []Option) ([]Option, error) {
	stored := []Option{WithMultinomial(mw.Multinomial)}
	if mw.Loss != "" {
		loss, err := ParseLoss(mw.Loss)
		if err != nil {
			return nil, err
		}
		stored = append(stored, WithLoss(loss))
	}
	return append(stored, opts...), nil
}

func installWeights(e *Estimator, mw *model.ModelWeights) error {
	ws := Primal(rowsDense(mw.Coef))
	if len(mw.Coef) == 0 {
		ws = Dual(rowsDense(mw.DualCoef))
	}
	if mw.SupportVectors {
		if err := e.SetSupportVectors(mw.NSamples); err != nil {
			return err
		}
	}
	var intercept []float64
	if len(mw.Intercept) > 0 {
		intercept = mw.Intercept
	}
	return e.SetWeights(ws, intercept)
}

func rowsDense(rows [][]float64) *mat.Dense {
	if len(rows) == 0 {
		return nil
	}
	m := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, r := range rows {
		m.SetRow(i, r)
	}
	return m
}

func denseRows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}
