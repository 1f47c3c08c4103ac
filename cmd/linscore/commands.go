package main

import (
	"fmt"
	"strconv"

	"github.com/YuminosukeSato/linscore/core/model"
	"github.com/YuminosukeSato/linscore/metrics"
	"github.com/YuminosukeSato/linscore/pkg/errors"
	"github.com/YuminosukeSato/linscore/pkg/log"
	"github.com/YuminosukeSato/linscore/pkg/report"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

func (a *app) decisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decision",
		Short: "Print raw decision scores (X·Wᵗ + b)",
		Args:  cobra.NoArgs,
		RunE: a.run(log.OperationDecisionFunction, func() error {
			if a.weights.ModelType == model.ModelTypeRegressor {
				return a.regressionOutput()
			}
			clf, err := a.classifier()
			if err != nil {
				return err
			}
			var table *tableWriter
			err = a.forEachBatch(func(X mat.Matrix, _ []string) error {
				scores, err := clf.DecisionFunction(X)
				if err != nil {
					return err
				}
				if table == nil {
					_, c := scores.Dims()
					table = a.newTable(columnHeader("score", c)...)
				}
				return table.matrix(scores)
			})
			if err != nil || table == nil {
				return err
			}
			return table.flush()
		}),
	}
}

func (a *app) predictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Print predicted labels (classifier) or values (regressor)",
		Args:  cobra.NoArgs,
		RunE: a.run(log.OperationPredict, func() error {
			if a.weights.ModelType == model.ModelTypeRegressor {
				return a.regressionOutput()
			}
			clf, err := a.classifier()
			if err != nil {
				return err
			}
			table := a.newTable("prediction")
			err = a.forEachBatch(func(X mat.Matrix, _ []string) error {
				labels, err := clf.Predict(X)
				if err != nil {
					return err
				}
				for _, l := range labels {
					if err := table.row(l); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			return table.flush()
		}),
	}
}

func (a *app) regressionOutput() error {
	reg, err := a.regressor()
	if err != nil {
		return err
	}
	var table *tableWriter
	err = a.forEachBatch(func(X mat.Matrix, _ []string) error {
		pred, err := reg.Predict(X)
		if err != nil {
			return err
		}
		if table == nil {
			_, c := pred.Dims()
			if c == 1 {
				table = a.newTable("prediction")
			} else {
				table = a.newTable(columnHeader("target", c)...)
			}
		}
		return table.matrix(pred)
	})
	if err != nil || table == nil {
		return err
	}
	return table.flush()
}

func (a *app) probaCmd() *cobra.Command {
	var logProba bool
	cmd := &cobra.Command{
		Use:   "proba",
		Short: "Print class probabilities, one column per class",
		Args:  cobra.NoArgs,
		RunE: a.run(log.OperationPredictProba, func() error {
			clf, err := a.classifier()
			if err != nil {
				return err
			}
			table := a.newTable(clf.Classes()...)
			err = a.forEachBatch(func(X mat.Matrix, _ []string) error {
				var (
					proba *mat.Dense
					err   error
				)
				if logProba {
					proba, err = clf.PredictLogProba(X)
				} else {
					proba, err = clf.PredictProba(X)
				}
				if err != nil {
					return err
				}
				return table.matrix(proba)
			})
			if err != nil {
				return err
			}
			return table.flush()
		}),
	}
	cmd.Flags().BoolVar(&logProba, "log", false, "Print natural-log probabilities")
	return cmd
}

func (a *app) nnzCmd() *cobra.Command {
	var percentage bool
	cmd := &cobra.Command{
		Use:   "nnz",
		Short: "Print the number of weight columns with a non-zero entry",
		Args:  cobra.NoArgs,
		RunE: a.run(log.OperationNNonzero, func() error {
			var scorer interface {
				NNonzero(bool) (float64, error)
			}
			if a.weights.ModelType == model.ModelTypeClassifier {
				clf, err := a.classifier()
				if err != nil {
					return err
				}
				scorer = clf
			} else {
				reg, err := a.regressor()
				if err != nil {
					return err
				}
				scorer = reg
			}
			n, err := scorer.NNonzero(percentage)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, formatFloat(n))
			return err
		}),
	}
	cmd.Flags().BoolVar(&percentage, "percentage", false, "Normalise by the weight column count (or sample count for support-vector models)")
	return cmd
}

func (a *app) scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Evaluate the model against labelled input (requires --label-column or --libsvm)",
		Args:  cobra.NoArgs,
		RunE: a.run(log.OperationScore, func() error {
			if a.libsvm == "" && a.labelColumn < 0 {
				return errors.NewValidationError("label-column", "score needs labelled input", a.labelColumn)
			}
			if a.weights.ModelType == model.ModelTypeRegressor {
				return a.scoreRegressor()
			}
			return a.scoreClassifier()
		}),
	}
}

func (a *app) scoreClassifier() error {
	clf, err := a.classifier()
	if err != nil {
		return err
	}
	index := make(map[string]int)
	for i, c := range clf.Classes() {
		index[c] = i
	}

	var (
		yTrue, yPred []string
		yIdx         []int
		probas       []*mat.Dense
	)
	withProba := clf.Loss().SupportsProba(clf.NClasses())
	err = a.forEachBatch(func(X mat.Matrix, labels []string) error {
		pred, err := clf.Predict(X)
		if err != nil {
			return err
		}
		yTrue = append(yTrue, labels...)
		yPred = append(yPred, pred...)
		if !withProba {
			return nil
		}
		proba, err := clf.PredictProba(X)
		if err != nil {
			return err
		}
		probas = append(probas, proba)
		for _, l := range labels {
			i, ok := index[l]
			if !ok {
				return errors.NewValueError("score", "label "+strconv.Quote(l)+" was not seen at fit time")
			}
			yIdx = append(yIdx, i)
		}
		return nil
	})
	if err != nil {
		return err
	}

	acc, err := metrics.Accuracy(yTrue, yPred)
	if err != nil {
		return err
	}
	table := a.newTable("metric", "value")
	if err := table.row("accuracy", formatFloat(acc)); err != nil {
		return err
	}
	if withProba {
		loss, err := metrics.LogLoss(yIdx, stack(probas))
		if err != nil {
			return err
		}
		if err := table.row("log_loss", formatFloat(loss)); err != nil {
			return err
		}
	}
	return table.flush()
}

func (a *app) scoreRegressor() error {
	reg, err := a.regressor()
	if err != nil {
		return err
	}
	var yTrue, yPred []float64
	err = a.forEachBatch(func(X mat.Matrix, labels []string) error {
		pred, err := reg.Predict(X)
		if err != nil {
			return err
		}
		r, c := pred.Dims()
		if c != 1 {
			return errors.NewDimensionError("score", 1, c, 1)
		}
		for i := 0; i < r; i++ {
			yPred = append(yPred, pred.At(i, 0))
		}
		for _, l := range labels {
			v, err := strconv.ParseFloat(l, 64)
			if err != nil {
				return errors.Wrapf(err, "parse target %q", l)
			}
			yTrue = append(yTrue, v)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(yTrue) == 0 {
		return errors.NewModelError("score", "empty data", errors.ErrEmptyData)
	}

	t := mat.NewVecDense(len(yTrue), yTrue)
	p := mat.NewVecDense(len(yPred), yPred)
	table := a.newTable("metric", "value")
	for _, m := range []struct {
		name string
		fn   func(yTrue, yPred *mat.VecDense) (float64, error)
	}{
		{"r2", metrics.R2Score},
		{"mse", metrics.MSE},
		{"rmse", metrics.RMSE},
		{"mae", metrics.MAE},
	} {
		v, err := m.fn(t, p)
		if err != nil {
			return err
		}
		if err := table.row(m.name, formatFloat(v)); err != nil {
			return err
		}
	}
	return table.flush()
}

func (a *app) plotCmd() *cobra.Command {
	var out, title string
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Draw positive-class probability against decision score (binary classifiers)",
		Args:  cobra.NoArgs,
		RunE: a.run("plot", func() error {
			clf, err := a.classifier()
			if err != nil {
				return err
			}
			if clf.NClasses() != 2 {
				return errors.NewValidationError("classes", "plot needs a binary classifier", clf.NClasses())
			}
			var scores, proba []float64
			err = a.forEachBatch(func(X mat.Matrix, _ []string) error {
				s, err := clf.DecisionFunction(X)
				if err != nil {
					return err
				}
				p, err := clf.PredictProba(X)
				if err != nil {
					return err
				}
				scores = append(scores, mat.Col(nil, 0, s)...)
				proba = append(proba, mat.Col(nil, 1, p)...)
				return nil
			})
			if err != nil {
				return err
			}
			if title == "" {
				title = "loss=" + clf.Loss().String()
			}
			if err := report.SaveCalibrationPlot(scores, proba, title, out); err != nil {
				return err
			}
			a.logger.Info("calibration plot written", "path", out, log.SamplesKey, len(scores))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", "calibration.png", "Output image (.png, .svg, .pdf)")
	cmd.Flags().StringVar(&title, "title", "", "Plot title (defaults to the loss name)")
	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Re-encode the model file (format chosen by the --out extension)",
		Args:  cobra.NoArgs,
		RunE: a.run("convert", func() error {
			// 変換前に推論器として復元できることを確認する
			var exporter model.WeightExporter
			if a.weights.ModelType == model.ModelTypeClassifier {
				clf, err := a.classifier()
				if err != nil {
					return err
				}
				exporter = clf
			} else {
				reg, err := a.regressor()
				if err != nil {
					return err
				}
				exporter = reg
			}
			if _, err := exporter.ExportWeights(); err != nil {
				return err
			}
			if err := model.SaveWeights(a.weights, out); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.out, a.weights.Hash())
			return err
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination model file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// stack concatenates row blocks with equal column counts.
func stack(blocks []*mat.Dense) *mat.Dense {
	var rows, cols int
	for _, b := range blocks {
		r, c := b.Dims()
		rows += r
		cols = c
	}
	out := mat.NewDense(rows, cols, nil)
	offset := 0
	for _, b := range blocks {
		r, _ := b.Dims()
		out.Slice(offset, offset+r, 0, cols).(*mat.Dense).Copy(b)
		offset += r
	}
	return out
}
