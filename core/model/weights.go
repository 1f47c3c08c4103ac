package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/YuminosukeSato/linscore/pkg/errors"
	"gopkg.in/yaml.v3"
)

// モデル種別
const (
	ModelTypeClassifier = "classifier"
	ModelTypeRegressor  = "regressor"
)

// CurrentVersion は ModelWeights のスキーマバージョン
const CurrentVersion = "1"

// DefaultNegLabel は neg_label が省略された場合の負ラベル
const DefaultNegLabel = -1

// ModelWeights は学習済み線形モデルの状態を表す構造体（シリアライゼーション用）。
// 学習処理が一度だけ書き出し、推論側は読み取り専用として扱う
type ModelWeights struct {
	// ModelType はモデルの種類（classifier / regressor）
	ModelType string `json:"model_type" yaml:"model_type"`

	// Version はスキーマのバージョン（互換性チェック用）
	Version string `json:"version" yaml:"version"`

	// Coef は主問題の重み行列（n_vectors × n_features）
	Coef [][]float64 `json:"coef,omitempty" yaml:"coef,omitempty"`

	// DualCoef は双対表現の重み行列（Coef がない場合のみ使用）
	DualCoef [][]float64 `json:"dual_coef,omitempty" yaml:"dual_coef,omitempty"`

	// Intercept は切片。nil の場合はバイアス項なし
	Intercept []float64 `json:"intercept,omitempty" yaml:"intercept,omitempty"`

	// Loss は学習時の損失関数名（"log", "modified_huber", ...）
	Loss string `json:"loss,omitempty" yaml:"loss,omitempty"`

	// Multinomial は多クラス確率をソフトマックスで計算するかどうか（false なら one-vs-rest）
	Multinomial bool `json:"multinomial,omitempty" yaml:"multinomial,omitempty"`

	// Classes は学習時に観測したクラスラベル（昇順）
	Classes []string `json:"classes,omitempty" yaml:"classes,omitempty"`

	// NegLabel はラベルバイナライザの負ラベル。nil の場合は DefaultNegLabel
	NegLabel *int `json:"neg_label,omitempty" yaml:"neg_label,omitempty"`

	// Outputs2D は回帰器が2次元のターゲットで学習されたかどうか
	Outputs2D bool `json:"outputs_2d,omitempty" yaml:"outputs_2d,omitempty"`

	// SupportVectors はサポートベクターに基づくモデルかどうか
	SupportVectors bool `json:"support_vectors,omitempty" yaml:"support_vectors,omitempty"`

	// NSamples は学習サンプル数（SupportVectors の場合の割合計算に使用）
	NSamples int `json:"n_samples,omitempty" yaml:"n_samples,omitempty"`

	// Features は特徴量の名前（オプション）
	Features []string `json:"features,omitempty" yaml:"features,omitempty"`

	// Metadata は追加のメタデータ（学習時の統計等）
	Metadata map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted" yaml:"is_fitted"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "decode model weights json")
	}
	return nil
}

// ToYAML はModelWeightsをYAML形式にシリアライズ
func (mw *ModelWeights) ToYAML() ([]byte, error) {
	return yaml.Marshal(mw)
}

// FromYAML はYAML形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromYAML(data []byte) error {
	if err := yaml.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "decode model weights yaml")
	}
	return nil
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	switch mw.ModelType {
	case ModelTypeClassifier, ModelTypeRegressor:
	case "":
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	default:
		return errors.NewValidationError("model_type", "must be classifier or regressor", mw.ModelType)
	}

	if mw.Version == "" {
		return errors.NewValidationError("version", "is required", mw.Version)
	}

	hasWeights := len(mw.Coef) > 0 || len(mw.DualCoef) > 0
	if !mw.IsFitted && hasWeights {
		return errors.NewValidationError("is_fitted", "unfitted model should not have coefficients", mw.IsFitted)
	}
	if mw.IsFitted && !hasWeights {
		return errors.NewValidationError("coef", "fitted model must have coefficients", len(mw.Coef))
	}

	if err := validateRectangular("coef", mw.Coef); err != nil {
		return err
	}
	if err := validateRectangular("dual_coef", mw.DualCoef); err != nil {
		return err
	}

	if mw.ModelType == ModelTypeClassifier && mw.IsFitted && len(mw.Classes) < 2 {
		return errors.NewValidationError("classes", "a classifier needs at least two classes", len(mw.Classes))
	}
	if mw.SupportVectors && mw.NSamples <= 0 {
		return errors.NewValidationError("n_samples", "must be positive when support_vectors is set", mw.NSamples)
	}
	return nil
}

func validateRectangular(name string, rows [][]float64) error {
	if len(rows) == 0 {
		return nil
	}
	width := len(rows[0])
	if width == 0 {
		return errors.NewValidationError(name, "rows must not be empty", 0)
	}
	for i, r := range rows {
		if len(r) != width {
			return errors.NewValidationError(name, fmt.Sprintf("row %d has %d columns, expected %d", i, len(r), width), len(r))
		}
	}
	return nil
}

// NegLabelOrDefault は neg_label を返す。省略時は DefaultNegLabel
func (mw *ModelWeights) NegLabelOrDefault() int {
	if mw.NegLabel == nil {
		return DefaultNegLabel
	}
	return *mw.NegLabel
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := *mw
	if mw.NegLabel != nil {
		neg := *mw.NegLabel
		clone.NegLabel = &neg
	}
	clone.Coef = cloneRows(mw.Coef)
	clone.DualCoef = cloneRows(mw.DualCoef)
	clone.Intercept = append([]float64(nil), mw.Intercept...)
	clone.Classes = append([]string(nil), mw.Classes...)
	clone.Features = append([]string(nil), mw.Features...)
	if mw.Metadata != nil {
		clone.Metadata = make(map[string]interface{}, len(mw.Metadata))
		for k, v := range mw.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

func cloneRows(rows [][]float64) [][]float64 {
	if rows == nil {
		return nil
	}
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
	}
	return out
}

// Hash は重みと切片から SHA-256 ハッシュを計算する（検証用）
func (mw *ModelWeights) Hash() string {
	h := sha256.New()
	for _, rows := range [][][]float64{mw.Coef, mw.DualCoef} {
		for _, r := range rows {
			for _, v := range r {
				fmt.Fprintf(h, "%x;", v)
			}
			h.Write([]byte{'\n'})
		}
		h.Write([]byte{'|'})
	}
	for _, v := range mw.Intercept {
		fmt.Fprintf(h, "%x;", v)
	}
	return hex.EncodeToString(h.Sum(nil))
}
