package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSigmoid(t *testing.T) {
	tests := []struct {
		s    float64
		want float64
	}{
		{0, 0.5},
		{2, 1 / (1 + math.Exp(-2))},
		{-2, 1 / (1 + math.Exp(2))},
		{800, 1},
		{-800, 0},
	}
	for _, tt := range tests {
		got := sigmoid(tt.s)
		if math.IsNaN(got) || math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("sigmoid(%v) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestSigmoidSymmetry(t *testing.T) {
	for _, s := range []float64{0.1, 1, 5, 30, 700} {
		if d := sigmoid(s) + sigmoid(-s) - 1; math.Abs(d) > 1e-15 {
			t.Errorf("sigmoid(%v) + sigmoid(%v) = 1%+g", s, -s, d)
		}
	}
}

func TestModifiedHuberProba(t *testing.T) {
	cases := map[float64]float64{-5: 0, -1: 0, -0.5: 0.25, 0: 0.5, 1: 1, 2: 1}
	for s, want := range cases {
		if got := modifiedHuberProba(s); got != want {
			t.Errorf("modifiedHuberProba(%v) = %v, want %v", s, got, want)
		}
	}
}

func TestSoftmaxRowsLargeScores(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{
		1000, 1000, 1000,
		-1000, 0, 1000,
	})
	softmaxRows(m)
	for j := 0; j < 3; j++ {
		if math.Abs(m.At(0, j)-1.0/3) > 1e-12 {
			t.Errorf("m[0,%d] = %v, want 1/3", j, m.At(0, j))
		}
	}
	if m.At(1, 2) != 1 || m.At(1, 0) != 0 {
		t.Errorf("row 1 = %v", mat.Row(nil, 1, m))
	}
}

func TestOvrNormalizeUnderflow(t *testing.T) {
	// every sigmoid underflows to zero, leaving 0/0
	m := mat.NewDense(1, 2, []float64{-1000, -1000})
	ovrNormalize(m)
	if !math.IsNaN(m.At(0, 0)) {
		t.Errorf("expected NaN for fully underflowed row, got %v", m.At(0, 0))
	}
}
