// Package preprocessing provides the label bijections used to decode
// classifier scores back into the label space seen at fit time.
package preprocessing

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/YuminosukeSato/linscore/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LabelEncoder は任意のラベル値と 0..n_classes-1 の密な整数インデックスとの全単射
type LabelEncoder[L cmp.Ordered] struct {
	classes []L
	index   map[L]int
}

// NewLabelEncoder は未学習のLabelEncoderを作成する
func NewLabelEncoder[L cmp.Ordered]() *LabelEncoder[L] {
	return &LabelEncoder[L]{}
}

// NewLabelEncoderFromClasses は保存済みのクラス一覧からLabelEncoderを復元する。
// classes は狭義単調増加でなければならない（全単射の検証）
//
// 使用例:
//
//	enc, err := preprocessing.NewLabelEncoderFromClasses([]string{"cat", "dog"})
func NewLabelEncoderFromClasses[L cmp.Ordered](classes []L) (*LabelEncoder[L], error) {
	if len(classes) == 0 {
		return nil, errors.NewModelError("LabelEncoder", "empty classes", errors.ErrEmptyData)
	}
	for i := 1; i < len(classes); i++ {
		if cmp.Compare(classes[i-1], classes[i]) >= 0 {
			return nil, errors.NewValidationError("classes", "must be strictly increasing and unique", classes)
		}
	}
	e := &LabelEncoder[L]{}
	e.setClasses(slices.Clone(classes))
	return e, nil
}

func (e *LabelEncoder[L]) setClasses(classes []L) {
	e.classes = classes
	e.index = make(map[L]int, len(classes))
	for i, c := range classes {
		e.index[c] = i
	}
}

// Fit は y に現れる一意なラベルを昇順で記録する
func (e *LabelEncoder[L]) Fit(y []L) error {
	if len(y) == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	classes := slices.Clone(y)
	slices.Sort(classes)
	e.setClasses(slices.Compact(classes))
	return nil
}

// Transform はラベルを密なインデックスに変換する。未知のラベルはValueError
func (e *LabelEncoder[L]) Transform(y []L) ([]int, error) {
	if e.index == nil {
		return nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}
	out := make([]int, len(y))
	for i, label := range y {
		idx, ok := e.index[label]
		if !ok {
			return nil, errors.NewValueError("LabelEncoder.Transform", fmt.Sprintf("y contains previously unseen label %v", label))
		}
		out[i] = idx
	}
	return out, nil
}

// FitTransform はFitとTransformを同時に実行する
func (e *LabelEncoder[L]) FitTransform(y []L) ([]int, error) {
	if err := e.Fit(y); err != nil {
		return nil, err
	}
	return e.Transform(y)
}

// InverseTransform は密なインデックスを元のラベルに戻す
func (e *LabelEncoder[L]) InverseTransform(indices []int) ([]L, error) {
	if e.index == nil {
		return nil, errors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}
	out := make([]L, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(e.classes) {
			return nil, errors.NewValueError("LabelEncoder.InverseTransform", fmt.Sprintf("index %d out of range [0, %d)", idx, len(e.classes)))
		}
		out[i] = e.classes[idx]
	}
	return out, nil
}

// Classes は学習したクラス一覧のコピーを返す
func (e *LabelEncoder[L]) Classes() []L {
	return slices.Clone(e.classes)
}

// NClasses はクラス数を返す
func (e *LabelEncoder[L]) NClasses() int {
	return len(e.classes)
}

// LabelBinarizer は密なクラスインデックスとベクトル表現（neg/pos ラベル）との全単射。
// 2クラスの場合は1列、3クラス以上の場合はクラス数と同じ列数で表現する
type LabelBinarizer struct {
	negLabel int
	posLabel int
	classes  []int
}

// NewLabelBinarizer は negLabel < posLabel を満たすLabelBinarizerを作成する
func NewLabelBinarizer(negLabel, posLabel int) (*LabelBinarizer, error) {
	if negLabel >= posLabel {
		return nil, errors.NewValidationError("neg_label", fmt.Sprintf("must be strictly less than pos_label (%d)", posLabel), negLabel)
	}
	return &LabelBinarizer{negLabel: negLabel, posLabel: posLabel}, nil
}

// Fit は y に現れる一意なクラスインデックスを記録する
func (b *LabelBinarizer) Fit(y []int) error {
	if len(y) == 0 {
		return errors.NewModelError("LabelBinarizer.Fit", "empty data", errors.ErrEmptyData)
	}
	classes := slices.Clone(y)
	slices.Sort(classes)
	b.classes = slices.Compact(classes)
	return nil
}

// Classes は学習したクラス一覧のコピーを返す
func (b *LabelBinarizer) Classes() []int {
	return slices.Clone(b.classes)
}

// NClasses はクラス数を返す
func (b *LabelBinarizer) NClasses() int {
	return len(b.classes)
}

// NegLabel は負ラベルを返す
func (b *LabelBinarizer) NegLabel() int { return b.negLabel }

// PosLabel は陽性ラベルを返す
func (b *LabelBinarizer) PosLabel() int { return b.posLabel }

// Threshold は2クラスの逆変換で使う閾値 (neg+pos)/2
func (b *LabelBinarizer) Threshold() float64 {
	return float64(b.negLabel+b.posLabel) / 2
}

func (b *LabelBinarizer) position(c int) (int, bool) {
	return slices.BinarySearch(b.classes, c)
}

// Transform はクラスインデックスをベクトル表現に変換する
func (b *LabelBinarizer) Transform(y []int) (*mat.Dense, error) {
	k := len(b.classes)
	if k == 0 {
		return nil, errors.NewNotFittedError("LabelBinarizer", "Transform")
	}
	if len(y) == 0 {
		return nil, errors.NewModelError("LabelBinarizer.Transform", "empty data", errors.ErrEmptyData)
	}
	cols := k
	if k <= 2 {
		cols = 1
	}
	out := mat.NewDense(len(y), cols, nil)
	neg, pos := float64(b.negLabel), float64(b.posLabel)
	for i, c := range y {
		p, ok := b.position(c)
		if !ok {
			return nil, errors.NewValueError("LabelBinarizer.Transform", fmt.Sprintf("y contains previously unseen class %d", c))
		}
		for j := 0; j < cols; j++ {
			out.Set(i, j, neg)
		}
		switch {
		case k == 2 && p == 1:
			out.Set(i, 0, pos)
		case k > 2:
			out.Set(i, p, pos)
		}
	}
	return out, nil
}

// InverseTransform はスコア行列をクラスインデックスに戻す。
// 2クラスでは score > (neg+pos)/2 を陽性、3クラス以上では行ごとの argmax（同値なら先頭）
func (b *LabelBinarizer) InverseTransform(scores mat.Matrix) ([]int, error) {
	k := len(b.classes)
	if k == 0 {
		return nil, errors.NewNotFittedError("LabelBinarizer", "InverseTransform")
	}
	rows, cols := scores.Dims()
	out := make([]int, rows)

	switch {
	case k == 1:
		for i := range out {
			out[i] = b.classes[0]
		}
	case k == 2:
		if cols != 1 && cols != 2 {
			return nil, errors.NewDimensionError("LabelBinarizer.InverseTransform", 1, cols, 1)
		}
		col := cols - 1
		threshold := b.Threshold()
		for i := 0; i < rows; i++ {
			if scores.At(i, col) > threshold {
				out[i] = b.classes[1]
			} else {
				out[i] = b.classes[0]
			}
		}
	default:
		if cols != k {
			return nil, errors.NewDimensionError("LabelBinarizer.InverseTransform", k, cols, 1)
		}
		for i := 0; i < rows; i++ {
			best := 0
			for j := 1; j < cols; j++ {
				if scores.At(i, j) > scores.At(i, best) {
					best = j
				}
			}
			out[i] = b.classes[best]
		}
	}
	return out, nil
}
