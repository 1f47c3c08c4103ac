package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/linscore/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModel(t *testing.T, name string, mw *model.ModelWeights) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, model.SaveWeights(mw, path))
	return path
}

func binaryModel() *model.ModelWeights {
	return &model.ModelWeights{
		ModelType: model.ModelTypeClassifier,
		Version:   model.CurrentVersion,
		Coef:      [][]float64{{1, -1}},
		Intercept: []float64{0},
		Loss:      "log",
		Classes:   []string{"ham", "spam"},
		IsFitted:  true,
	}
}

func regressionModel() *model.ModelWeights {
	return &model.ModelWeights{
		ModelType: model.ModelTypeRegressor,
		Version:   model.CurrentVersion,
		Coef:      [][]float64{{2, 0, 1}},
		Intercept: []float64{1},
		Loss:      "squared",
		IsFitted:  true,
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestPredictClassifierFromStdin(t *testing.T) {
	modelPath := writeModel(t, "clf.yaml", binaryModel())
	out, _, err := execute(t, "2,1\n1,2\n", "--model", modelPath, "predict")
	require.NoError(t, err)
	assert.Equal(t, "prediction\nspam\nham\n", out)
}

func TestDecisionClassifier(t *testing.T) {
	modelPath := writeModel(t, "clf.json", binaryModel())
	out, _, err := execute(t, "x,y\n3,1\n0,0.5\n", "--model", modelPath, "--header", "decision")
	require.NoError(t, err)
	assert.Equal(t, "score_0\n2\n-0.5\n", out)
}

func TestProbaClassifier(t *testing.T) {
	modelPath := writeModel(t, "clf.gob", binaryModel())
	out, _, err := execute(t, "1,1\n", "--model", modelPath, "proba")
	require.NoError(t, err)
	assert.Equal(t, "ham,spam\n0.5,0.5\n", out)
}

func TestProbaUnsupportedLoss(t *testing.T) {
	mw := binaryModel()
	mw.Loss = "hinge"
	modelPath := writeModel(t, "clf.yaml", mw)
	_, logs, err := execute(t, "1,1\n", "--model", modelPath, "proba")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hinge given")
	assert.Contains(t, logs, "UnsupportedConfigurationError")
}

func TestPredictRegressorLIBSVM(t *testing.T) {
	modelPath := writeModel(t, "reg.yaml", regressionModel())
	svm := filepath.Join(t.TempDir(), "x.svm")
	require.NoError(t, os.WriteFile(svm, []byte("5 1:1 3:2\n0 2:7\n"), 0o644))

	out, _, err := execute(t, "", "--model", modelPath, "--libsvm", svm, "predict")
	require.NoError(t, err)
	assert.Equal(t, "prediction\n5\n1\n", out)
}

func TestScoreRegressor(t *testing.T) {
	modelPath := writeModel(t, "reg.yaml", regressionModel())
	out, _, err := execute(t, "1,0,2,5\n0,9,0,1\n2,0,0,5\n",
		"--model", modelPath, "--label-column", "3", "score")
	require.NoError(t, err)
	assert.Contains(t, out, "r2,1\n")
	assert.Contains(t, out, "mse,0\n")
}

func TestScoreClassifier(t *testing.T) {
	modelPath := writeModel(t, "clf.yaml", binaryModel())
	out, _, err := execute(t, "2,1,spam\n1,2,ham\n3,0,ham\n0,0,spam\n",
		"--model", modelPath, "--label-column", "2", "score")
	require.NoError(t, err)
	assert.Contains(t, out, "accuracy,0.5\n")
	assert.Contains(t, out, "log_loss,")
}

func TestScoreRequiresLabels(t *testing.T) {
	modelPath := writeModel(t, "clf.yaml", binaryModel())
	_, _, err := execute(t, "1,1\n", "--model", modelPath, "score")
	require.Error(t, err)
}

func TestNNZ(t *testing.T) {
	modelPath := writeModel(t, "reg.yaml", regressionModel())

	out, _, err := execute(t, "", "--model", modelPath, "nnz")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, _, err = execute(t, "", "--model", modelPath, "nnz", "--percentage")
	require.NoError(t, err)
	assert.Equal(t, "0.6666666666666666\n", out)
}

func TestFeatureMismatch(t *testing.T) {
	modelPath := writeModel(t, "clf.yaml", binaryModel())
	_, _, err := execute(t, "1,2,3\n", "--model", modelPath, "predict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestMetricsFile(t *testing.T) {
	modelPath := writeModel(t, "clf.yaml", binaryModel())
	metricsPath := filepath.Join(t.TempDir(), "linscore.prom")
	_, _, err := execute(t, "1,0\n0,1\n", "--model", modelPath, "--metrics-file", metricsPath, "predict")
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `linscore_predicted_rows_total{model="Classifier",operation="predict"} 2`)
}

func TestPlotAndConvert(t *testing.T) {
	modelPath := writeModel(t, "clf.yaml", binaryModel())
	dir := t.TempDir()

	plotPath := filepath.Join(dir, "cal.svg")
	_, _, err := execute(t, "1,0\n0,1\n2,-1\n", "--model", modelPath, "plot", "--out", plotPath)
	require.NoError(t, err)
	info, err := os.Stat(plotPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	jsonPath := filepath.Join(dir, "clf.json")
	out, _, err := execute(t, "", "--model", modelPath, "convert", "--out", jsonPath)
	require.NoError(t, err)

	converted, err := model.LoadWeights(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, converted.Hash()+"\n", out)
	assert.Equal(t, binaryModel().Classes, converted.Classes)
}

func TestMissingModelFlag(t *testing.T) {
	_, _, err := execute(t, "", "predict")
	require.Error(t, err)
}
