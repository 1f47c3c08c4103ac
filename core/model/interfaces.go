// Package model provides the capability interfaces and fitted-state containers
// shared by linscore estimators.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// ClassificationModel は分類器のインターフェース。
// ラベル型 L は学習時のラベルの型（文字列、整数など）
type ClassificationModel[L comparable] interface {
	ScoringModel
	DecisionFunctioner

	// PredictProba は各クラスの確率を予測（各行の和は1）
	PredictProba(X mat.Matrix) (*mat.Dense, error)

	// PredictLogProba は各クラスの対数確率を予測
	PredictLogProba(X mat.Matrix) (*mat.Dense, error)

	// Predict は元のラベル空間での予測ラベルを返す
	Predict(X mat.Matrix) ([]L, error)

	// Score は平均正解率を計算
	Score(X mat.Matrix, y []L) (float64, error)

	// Classes は学習されたクラスラベルを返す
	Classes() []L

	// NClasses は学習されたクラス数を返す
	NClasses() int
}

// RegressionModel は回帰器のインターフェース
type RegressionModel interface {
	ScoringModel
	Predictor

	// Score は決定係数R²を計算
	Score(X, y mat.Matrix) (float64, error)
}

// WeightExporter は重みをエクスポート可能なモデルのインターフェース
type WeightExporter interface {
	// ExportWeights はモデルの重みをエクスポート
	ExportWeights() (*ModelWeights, error)
}
