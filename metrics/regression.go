// Package metrics は推論結果の評価指標を提供する。
// 回帰器の R² と分類器の正解率・対数損失が Score メソッドと CLI から使われる
package metrics

import (
	"math"

	"github.com/YuminosukeSato/linscore/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// residuals は yTrue - yPred を返す。長さの不一致と空入力はエラー
func residuals(op string, yTrue, yPred *mat.VecDense) ([]float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	res := mat.Col(nil, 0, yTrue)
	floats.Sub(res, mat.Col(nil, 0, yPred))
	return res, nil
}

// MSE は平均二乗誤差
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	res, err := residuals("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Dot(res, res) / float64(len(res)), nil
}

// RMSE は MSE の平方根
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	res, err := residuals("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Norm(res, 1) / float64(len(res)), nil
}

// R2Score は決定係数 1 - RSS/TSS。yTrue が定数（TSS == 0）の場合は ValueError
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	res, err := residuals("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	y := mat.Col(nil, 0, yTrue)
	tss := stat.Variance(y, nil) * float64(len(y)-1)
	if len(y) < 2 || tss == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - floats.Dot(res, res)/tss, nil
}

// R2ScoreMatrix は複数ターゲットの R² を列ごとに計算し、一様平均を返す。
// yPred は *mat.VecDense（n×1）でも (n×k) 行列でもよい
func R2ScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("R2ScoreMatrix", "empty matrix")
	}
	if rTrue != rPred {
		return 0, errors.NewDimensionError("R2ScoreMatrix", rTrue, rPred, 0)
	}
	if cTrue != cPred {
		return 0, errors.NewDimensionError("R2ScoreMatrix", cTrue, cPred, 1)
	}

	var total float64
	for j := 0; j < cTrue; j++ {
		r2, err := R2Score(
			mat.NewVecDense(rTrue, mat.Col(nil, j, yTrue)),
			mat.NewVecDense(rPred, mat.Col(nil, j, yPred)),
		)
		if err != nil {
			return 0, errors.Wrapf(err, "output %d", j)
		}
		total += r2
	}
	return total / float64(cTrue), nil
}
