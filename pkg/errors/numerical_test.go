package errors

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCheckMatrix(t *testing.T) {
	tests := []struct {
		name    string
		data    []float64
		wantErr bool
	}{
		{name: "finite", data: []float64{0, 1, -1, 0.5}},
		{name: "nan", data: []float64{0, math.NaN(), 1, 2}, wantErr: true},
		{name: "inf", data: []float64{0, 1, math.Inf(-1), 2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckMatrix("proba", mat.NewDense(2, 2, tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckMatrix() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var instErr *NumericalInstabilityError
				if !As(err, &instErr) {
					t.Errorf("expected *NumericalInstabilityError, got %T", err)
				}
			}
		})
	}
}

func TestClipValue(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2, 1},
		{-5, -1},
		{0.25, 0.25},
		{1, 1},
	}
	for _, tt := range tests {
		if got := ClipValue(tt.in, -1, 1); got != tt.want {
			t.Errorf("ClipValue(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
