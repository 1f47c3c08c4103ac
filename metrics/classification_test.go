package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/linscore/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []string
		yPred   []string
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect accuracy",
			yTrue: []string{"a", "b", "c", "b", "a"},
			yPred: []string{"a", "b", "c", "b", "a"},
			want:  1.0,
		},
		{
			name:  "80% accuracy",
			yTrue: []string{"a", "b", "c", "b", "a"},
			yPred: []string{"a", "b", "b", "b", "a"},
			want:  0.8,
		},
		{
			name:  "Zero accuracy",
			yTrue: []string{"a", "a", "a"},
			yPred: []string{"b", "b", "b"},
			want:  0.0,
		},
		{
			name:    "Empty labels",
			yTrue:   []string{},
			yPred:   []string{},
			wantErr: true,
		},
		{
			name:    "Length mismatch",
			yTrue:   []string{"a", "b"},
			yPred:   []string{"a"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracyIntLabels(t *testing.T) {
	got, err := Accuracy([]int{1, -1, 1, 1}, []int{1, 1, 1, -1})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.5 {
		t.Errorf("Accuracy() = %v, want 0.5", got)
	}
}

func TestLogLoss(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []int
		proba   *mat.Dense
		want    float64
		wantErr bool
	}{
		{
			name:  "Typical binary case",
			yTrue: []int{0, 0, 1, 1},
			proba: mat.NewDense(4, 2, []float64{0.9, 0.1, 0.8, 0.2, 0.2, 0.8, 0.1, 0.9}),
			want:  0.164252,
		},
		{
			name:  "Uniform three classes",
			yTrue: []int{0, 1, 2},
			proba: mat.NewDense(3, 3, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3, 1.0 / 3, 1.0 / 3, 1.0 / 3, 1.0 / 3, 1.0 / 3, 1.0 / 3}),
			want:  math.Log(3),
		},
		{
			name:  "Clipping keeps the loss finite",
			yTrue: []int{0},
			proba: mat.NewDense(1, 2, []float64{0, 1}),
			want:  -math.Log(logLossEps),
		},
		{
			name:    "Row mismatch",
			yTrue:   []int{0, 1},
			proba:   mat.NewDense(1, 2, []float64{0.5, 0.5}),
			wantErr: true,
		},
		{
			name:    "Class out of range",
			yTrue:   []int{2},
			proba:   mat.NewDense(1, 2, []float64{0.5, 0.5}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LogLoss(tt.yTrue, tt.proba)
			if (err != nil) != tt.wantErr {
				t.Errorf("LogLoss() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-4 {
				t.Errorf("LogLoss() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogLossEmpty(t *testing.T) {
	_, err := LogLoss(nil, mat.NewDense(1, 1, []float64{1}))
	var valErr *errors.ValueError
	if !errors.As(err, &valErr) {
		t.Errorf("expected *ValueError, got %T", err)
	}
}
