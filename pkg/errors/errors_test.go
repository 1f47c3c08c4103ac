package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Classifier.Predict",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "linscore: Classifier.Predict: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "Regressor.Predict",
			kind:    "not fitted",
			err:     nil,
			wantMsg: "linscore: Regressor.Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Classifier.DecisionFunction", 5, 3, 1)

	want := "linscore: Classifier.DecisionFunction: dimension mismatch on axis 1 (features). Expected 5, got 3"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 5 || dimErr.Got != 3 {
		t.Errorf("unexpected fields: %+v", dimErr)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("Regressor", "Predict")

	want := "linscore: Regressor: this model is not fitted yet. Install fitted weights before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestUnsupportedConfigurationError(t *testing.T) {
	tests := []struct {
		name      string
		loss      string
		nClasses  int
		supported []string
		wantMsg   string
	}{
		{
			name:      "binary hinge",
			loss:      "hinge",
			nClasses:  2,
			supported: []string{"log", "modified_huber"},
			wantMsg:   "linscore: predict_proba only supported when loss='log' or loss='modified_huber' with 2 classes (hinge given)",
		},
		{
			name:      "multiclass modified huber",
			loss:      "modified_huber",
			nClasses:  3,
			supported: []string{"log"},
			wantMsg:   "linscore: predict_proba only supported when loss='log' with 3 classes (modified_huber given)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUnsupportedConfigurationError("predict_proba", tt.loss, tt.nClasses, tt.supported...)
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}
			if !Is(err, ErrNotImplemented) {
				t.Error("Expected Is(err, ErrNotImplemented) to be true")
			}
			var unsupported *UnsupportedConfigurationError
			if !As(err, &unsupported) {
				t.Fatal("Error should be castable to *UnsupportedConfigurationError")
			}
			if unsupported.Loss != tt.loss {
				t.Errorf("Loss = %q, want %q", unsupported.Loss, tt.loss)
			}
		})
	}
}

func TestInvalidModelShapeError(t *testing.T) {
	err := NewInvalidModelShapeError("Classifier.DecisionFunction", 0, 4, "weight matrix has no rows")

	want := "linscore: Classifier.DecisionFunction: invalid weight matrix shape (0, 4): weight matrix has no rows"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var shapeErr *InvalidModelShapeError
	if !As(err, &shapeErr) {
		t.Error("Error should be castable to *InvalidModelShapeError")
	}
	if Is(err, ErrNotImplemented) {
		t.Error("InvalidModelShapeError must not match ErrNotImplemented")
	}
}

func TestNumericalInstabilityError(t *testing.T) {
	err := NewNumericalInstabilityError("softmax", []float64{1, 2, 3, 4, 5, 6, 7})
	if !strings.Contains(err.Error(), "1, 2, 3, 4, 5, ...") {
		t.Errorf("expected truncated values, got %q", err.Error())
	}
}

func TestWarn(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(nil)

	Warn(New("first"))
	Warn(New("second"))

	if len(got) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(got))
	}

	SetWarningHandler(nil)
	Warn(New("dropped"))
	if len(got) != 2 {
		t.Errorf("warnings must be dropped without a handler, got %d", len(got))
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrNotImplemented, "in Classifier.PredictProba")

	if !Is(wrapped, ErrNotImplemented) {
		t.Error("Expected Is(wrapped, ErrNotImplemented) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in Classifier.PredictProba") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Predict", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestErrorChaining(t *testing.T) {
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewModelError("Operation", "failed", err2)

	if !strings.Contains(err3.Error(), "base error") {
		t.Error("Expected error chain to contain base error")
	}

	formatted := fmt.Sprintf("%+v", err3)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected detailed error to contain stack trace")
	}
}
