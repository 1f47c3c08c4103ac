package model

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/linscore/pkg/errors"
)

func sampleClassifierWeights() *ModelWeights {
	return &ModelWeights{
		ModelType:   ModelTypeClassifier,
		Version:     CurrentVersion,
		Coef:        [][]float64{{0.5, -1, 0}, {1, 0, 2}, {0, 0, 1}},
		Intercept:   []float64{0.1, 0.2, 0.3},
		Loss:        "log",
		Multinomial: true,
		Classes:     []string{"cat", "dog", "fish"},
		Features:    []string{"a", "b", "c"},
		Metadata:    map[string]interface{}{"solver": "sdca"},
		IsFitted:    true,
	}
}

func TestModelWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(mw *ModelWeights)
		wantErr bool
	}{
		{name: "valid", mutate: func(mw *ModelWeights) {}},
		{name: "missing type", mutate: func(mw *ModelWeights) { mw.ModelType = "" }, wantErr: true},
		{name: "unknown type", mutate: func(mw *ModelWeights) { mw.ModelType = "ranker" }, wantErr: true},
		{name: "missing version", mutate: func(mw *ModelWeights) { mw.Version = "" }, wantErr: true},
		{name: "fitted without coef", mutate: func(mw *ModelWeights) { mw.Coef = nil }, wantErr: true},
		{name: "unfitted with coef", mutate: func(mw *ModelWeights) { mw.IsFitted = false }, wantErr: true},
		{name: "ragged coef", mutate: func(mw *ModelWeights) { mw.Coef[1] = []float64{1} }, wantErr: true},
		{name: "single class", mutate: func(mw *ModelWeights) { mw.Classes = []string{"cat"} }, wantErr: true},
		{name: "support vectors without samples", mutate: func(mw *ModelWeights) { mw.SupportVectors = true }, wantErr: true},
		{name: "dual only", mutate: func(mw *ModelWeights) {
			mw.Coef = nil
			mw.DualCoef = [][]float64{{1, 0}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := sampleClassifierWeights()
			tt.mutate(mw)
			err := mw.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var valErr *errors.ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("expected *ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestModelWeightsClone(t *testing.T) {
	mw := sampleClassifierWeights()
	clone := mw.Clone()

	clone.Coef[0][0] = 99
	clone.Intercept[0] = 99
	clone.Classes[0] = "changed"
	clone.Metadata["solver"] = "changed"

	if mw.Coef[0][0] != 0.5 || mw.Intercept[0] != 0.1 || mw.Classes[0] != "cat" || mw.Metadata["solver"] != "sdca" {
		t.Error("Clone must not share memory with the original")
	}
	if mw.Hash() == clone.Hash() {
		t.Error("hash should change when weights change")
	}
}

func TestNegLabelOrDefault(t *testing.T) {
	mw := sampleClassifierWeights()
	if got := mw.NegLabelOrDefault(); got != DefaultNegLabel {
		t.Errorf("NegLabelOrDefault() = %d, want %d", got, DefaultNegLabel)
	}
	zero := 0
	mw.NegLabel = &zero
	clone := mw.Clone()
	zero = 5
	if got := clone.NegLabelOrDefault(); got != 0 {
		t.Errorf("clone NegLabelOrDefault() = %d, want 0", got)
	}
}

func TestModelWeightsHashStable(t *testing.T) {
	a := sampleClassifierWeights()
	b := sampleClassifierWeights()
	b.Features = nil
	if a.Hash() != b.Hash() {
		t.Error("hash must only depend on weights and intercept")
	}
}

func TestWeightsRoundTripFormats(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatGob} {
		var buf bytes.Buffer
		mw := sampleClassifierWeights()
		if err := WriteWeights(&buf, mw, format); err != nil {
			t.Fatalf("format %d: WriteWeights failed: %v", format, err)
		}
		got, err := ReadWeights(&buf, format)
		if err != nil {
			t.Fatalf("format %d: ReadWeights failed: %v", format, err)
		}
		if got.Hash() != mw.Hash() {
			t.Errorf("format %d: weights changed across round trip", format)
		}
		if len(got.Classes) != 3 || got.Classes[2] != "fish" || !got.Multinomial || got.Loss != "log" {
			t.Errorf("format %d: metadata lost: %+v", format, got)
		}
	}
}

func TestSaveLoadWeights(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"m.json", "m.yaml", "m.yml", "m.gob"} {
		path := filepath.Join(dir, name)
		mw := sampleClassifierWeights()
		if err := SaveWeights(mw, path); err != nil {
			t.Fatalf("%s: SaveWeights failed: %v", name, err)
		}
		got, err := LoadWeights(path)
		if err != nil {
			t.Fatalf("%s: LoadWeights failed: %v", name, err)
		}
		if got.Hash() != mw.Hash() {
			t.Errorf("%s: hash mismatch", name)
		}
	}
}

func TestLoadWeightsYAMLDocument(t *testing.T) {
	doc := `
model_type: regressor
version: "1"
coef:
  - [1.5, 0, -2]
intercept: [0.5]
is_fitted: true
`
	path := filepath.Join(t.TempDir(), "reg.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	mw, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("LoadWeights failed: %v", err)
	}
	if mw.ModelType != ModelTypeRegressor || mw.Coef[0][2] != -2 || mw.Intercept[0] != 0.5 {
		t.Errorf("unexpected weights: %+v", mw)
	}
}

func TestFormatFromPath(t *testing.T) {
	if _, err := FormatFromPath("model.txt"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if f, err := FormatFromPath("MODEL.YML"); err != nil || f != FormatYAML {
		t.Errorf("FormatFromPath(MODEL.YML) = %v, %v", f, err)
	}
}

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	if err := s.RequireFitted("Classifier", "Predict"); err == nil {
		t.Fatal("expected NotFittedError before SetFitted")
	}

	s.SetFitted(5, 100)
	if !s.IsFitted() {
		t.Fatal("expected fitted state")
	}
	if f, n := s.GetDimensions(); f != 5 || n != 100 {
		t.Errorf("GetDimensions() = %d, %d", f, n)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("Reset should clear fitted state")
	}
}
