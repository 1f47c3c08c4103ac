package linear

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// sigmoid は数値的に安定なロジスティック関数。
// s >= 0 では exp(-s)、s < 0 では exp(s) だけを評価するので、どちらの符号でもオーバーフローしない
func sigmoid(s float64) float64 {
	if s >= 0 {
		return 1 / (1 + math.Exp(-s))
	}
	e := math.Exp(s)
	return e / (1 + e)
}

// modifiedHuberProba maps a score onto [0, 1] via (clip(s, -1, 1) + 1) / 2.
func modifiedHuberProba(s float64) float64 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return (s + 1) / 2
}

// binaryProba builds the (n × 2) output [1-p, p] from a single score column.
func binaryProba(scores *mat.Dense, link func(float64) float64) *mat.Dense {
	n, _ := scores.Dims()
	out := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		p := link(scores.At(i, 0))
		out.Set(i, 0, 1-p)
		out.Set(i, 1, p)
	}
	return out
}

// softmaxRows replaces every row of m with its softmax in place.
// The row max is subtracted before exponentiating.
func softmaxRows(m *mat.Dense) {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		max := floats.Max(row)
		floats.AddConst(-max, row)
		for k, v := range row {
			row[k] = math.Exp(v)
		}
		floats.Scale(1/floats.Sum(row), row)
	}
}

// ovrNormalize applies the logistic function elementwise and divides each
// row by its sum. The result is row-stochastic but not a true multinomial
// posterior.
func ovrNormalize(m *mat.Dense) {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		for k, v := range row {
			row[k] = sigmoid(v)
		}
		// 全要素がアンダーフローした行は NaN になり、呼び出し側の CheckMatrix で検出される
		floats.Scale(1/floats.Sum(row), row)
	}
}
