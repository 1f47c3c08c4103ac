package model

import "gonum.org/v1/gonum/mat"

// ScoringModel は学習済みの重み行列を保持し、スパース性を報告できるモデルの共通インターフェース
type ScoringModel interface {
	// IsFitted は重みがインストール済みかどうかを返す
	IsFitted() bool

	// NNonzero は少なくとも1つの非ゼロ要素を持つ重み列の数を返す。
	// percentage が true の場合は割合を返す
	NNonzero(percentage bool) (float64, error)
}

// DecisionFunctioner は生の決定スコアを計算できるモデル
type DecisionFunctioner interface {
	// DecisionFunction は X·Wᵗ (+ 切片) を計算する
	DecisionFunction(X mat.Matrix) (*mat.Dense, error)
}

// Predictor は予測可能な回帰モデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}
