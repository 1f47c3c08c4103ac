package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/linscore/core/model"
	"github.com/YuminosukeSato/linscore/linear"
	"github.com/YuminosukeSato/linscore/pkg/dataset"
	"github.com/YuminosukeSato/linscore/pkg/errors"
	"github.com/YuminosukeSato/linscore/pkg/log"
	"github.com/YuminosukeSato/linscore/pkg/telemetry"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

const version = "v0.3.0"

var _ linear.Observer = (*telemetry.Recorder)(nil)

// app holds the flag values and the resources shared by every subcommand.
type app struct {
	out    io.Writer
	errOut io.Writer
	in     io.Reader

	modelPath         string
	logLevel          string
	metricsFile       string
	input             string
	libsvm            string
	header            bool
	labelColumn       int
	chunkSize         int
	workers           int
	parallelThreshold int

	logger   log.Logger
	recorder *telemetry.Recorder
	weights  *model.ModelWeights
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, in: os.Stdin}

	rootCmd := &cobra.Command{
		Use:     "linscore",
		Short:   "Score feature files with a fitted linear model",
		Version: version,
		Long: `linscore loads a fitted linear classifier or regressor from a model file
(.json, .yaml or .gob) and computes decision scores, predictions,
probabilities or sparsity statistics for a CSV or LIBSVM feature file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.in = cmd.InOrStdin()
			return a.setup()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.modelPath, "model", "m", "", "Path to the model file (.json, .yaml, .yml, .gob)")
	pf.StringVar(&a.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile on exit")
	pf.StringVarP(&a.input, "input", "i", "-", "CSV feature file ('-' reads stdin)")
	pf.StringVar(&a.libsvm, "libsvm", "", "LIBSVM feature file (takes precedence over --input)")
	pf.BoolVar(&a.header, "header", false, "CSV input starts with a header row")
	pf.IntVar(&a.labelColumn, "label-column", -1, "CSV column holding the target (-1 for none)")
	pf.IntVar(&a.chunkSize, "chunk-size", dataset.DefaultChunkSize, "Rows scored per CSV chunk")
	pf.IntVar(&a.workers, "workers", 0, "Scoring goroutines (0 = NumCPU)")
	pf.IntVar(&a.parallelThreshold, "parallel-threshold", 1000, "Row count above which scoring runs in parallel")
	_ = rootCmd.MarkPersistentFlagRequired("model")

	rootCmd.AddCommand(
		a.decisionCmd(),
		a.predictCmd(),
		a.probaCmd(),
		a.nnzCmd(),
		a.scoreCmd(),
		a.plotCmd(),
		a.convertCmd(),
	)
	return rootCmd
}

func (a *app) setup() error {
	level, err := log.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	a.logger = log.NewZerologLogger(a.errOut, level).With(log.ComponentKey, "cli")
	a.recorder = telemetry.NewRecorder()

	mw, err := model.LoadWeights(a.modelPath)
	if err != nil {
		return errors.Wrapf(err, "load model %s", a.modelPath)
	}
	a.weights = mw
	a.logger.Debug("model loaded",
		"model.path", a.modelPath,
		"model.type", mw.ModelType,
		"model.hash", mw.Hash(),
	)
	return nil
}

// run wraps a subcommand body: panics become errors, failures are logged
// and metrics are flushed whatever the outcome.
func (a *app) run(op string, fn func() error) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) (err error) {
		defer func() {
			if a.metricsFile != "" {
				if werr := a.recorder.WriteTextfile(a.metricsFile); werr != nil && err == nil {
					err = werr
				}
			}
			if err != nil {
				a.logger.Error(op+" failed", err, log.OperationKey, op)
			}
		}()
		return errors.SafeExecute(op, fn)
	}
}

func (a *app) options() []linear.Option {
	return []linear.Option{
		linear.WithObserver(a.recorder),
		linear.WithLogger(a.logger),
		linear.WithWorkers(a.workers),
		linear.WithParallelThreshold(a.parallelThreshold),
	}
}

func (a *app) classifier() (*linear.Classifier[string], error) {
	if a.weights.ModelType != model.ModelTypeClassifier {
		return nil, errors.NewValidationError("model_type", "this command needs a classifier", a.weights.ModelType)
	}
	return linear.ClassifierFromWeights(a.weights, a.options()...)
}

func (a *app) regressor() (*linear.Regressor, error) {
	return linear.RegressorFromWeights(a.weights, a.options()...)
}

// nFeatures は重み行列の列数。双対表現のみの場合は 0
func (a *app) nFeatures() int {
	if len(a.weights.Coef) > 0 {
		return len(a.weights.Coef[0])
	}
	return 0
}

// forEachBatch feeds the input to fn, chunk by chunk for CSV and in one
// piece for LIBSVM.
func (a *app) forEachBatch(fn func(X mat.Matrix, labels []string) error) error {
	if a.libsvm != "" {
		f, err := os.Open(a.libsvm)
		if err != nil {
			return errors.Wrapf(err, "open %s", a.libsvm)
		}
		defer f.Close()
		X, labels, err := dataset.ReadLIBSVM(f, a.nFeatures())
		if err != nil {
			return err
		}
		return fn(X, labels)
	}

	r := a.in
	if a.input != "-" {
		f, err := os.Open(a.input)
		if err != nil {
			return errors.Wrapf(err, "open %s", a.input)
		}
		defer f.Close()
		r = f
	}
	opts := dataset.CSVOptions{
		Header:      a.header,
		LabelColumn: a.labelColumn,
		ChunkSize:   a.chunkSize,
	}
	return dataset.ForEachChunk(r, opts, func(ch *dataset.Chunk) error {
		a.logger.Debug("chunk read", "chunk.start", ch.StartRow, log.SamplesKey, rowsOf(ch.X))
		return fn(ch.X, ch.Labels)
	})
}

func rowsOf(m mat.Matrix) int {
	r, _ := m.Dims()
	return r
}

// tableWriter writes CSV rows to the command output, emitting the header
// before the first row only.
type tableWriter struct {
	w      *csv.Writer
	header []string
	wrote  bool
}

func (a *app) newTable(header ...string) *tableWriter {
	return &tableWriter{w: csv.NewWriter(a.out), header: header}
}

func (t *tableWriter) row(fields ...string) error {
	if !t.wrote {
		t.wrote = true
		if err := t.w.Write(t.header); err != nil {
			return err
		}
	}
	return t.w.Write(fields)
}

func (t *tableWriter) matrix(m mat.Matrix) error {
	r, c := m.Dims()
	fields := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			fields[j] = formatFloat(m.At(i, j))
		}
		if err := t.row(fields...); err != nil {
			return err
		}
	}
	return nil
}

func (t *tableWriter) flush() error {
	t.w.Flush()
	return t.w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func columnHeader(prefix string, n int) []string {
	h := make([]string, n)
	for i := range h {
		h[i] = fmt.Sprintf("%s_%d", prefix, i)
	}
	return h
}
