package metrics

import (
	"math"

	"github.com/YuminosukeSato/linscore/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// logLossEps は log(0) を避けるためのクリップ幅
const logLossEps = 1e-15

// Accuracy は予測ラベルが正解ラベルと一致した割合を返す
func Accuracy[L comparable](yTrue, yPred []L) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty labels")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("Accuracy", n, len(yPred), 0)
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// LogLoss は多クラス対数損失（交差エントロピー）を計算する。
// yTrue は 0..k-1 のクラスインデックス、proba は (n×k) の確率行列。
// 確率は [eps, 1-eps] にクリップされる
func LogLoss(yTrue []int, proba mat.Matrix) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("LogLoss", "empty labels")
	}
	rows, k := proba.Dims()
	if rows != n {
		return 0, errors.NewDimensionError("LogLoss", n, rows, 0)
	}

	var sum float64
	for i, c := range yTrue {
		if c < 0 || c >= k {
			return 0, errors.NewValueError("LogLoss", "class index out of range of probability columns")
		}
		p := errors.ClipValue(proba.At(i, c), logLossEps, 1-logLossEps)
		sum -= math.Log(p)
	}
	return sum / float64(n), nil
}
