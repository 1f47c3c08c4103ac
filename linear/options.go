package linear

import (
	"time"

	"github.com/YuminosukeSato/linscore/pkg/log"
)

// defaultParallelThreshold is the row count above which scoring fans out
// over goroutines.
const defaultParallelThreshold = 1000

// Observer receives one call per public scoring operation.
type Observer interface {
	Observe(modelName, operation string, rows int, elapsed time.Duration, err error)
}

type config struct {
	loss              LossKind
	multinomial       bool
	parallelThreshold int
	workers           int
	observer          Observer
	logger            log.Logger
}

func defaultConfig() config {
	return config{
		loss:              LossHinge,
		parallelThreshold: defaultParallelThreshold,
	}
}

// Option configures a Classifier or Regressor.
type Option func(*config)

// WithLoss sets the loss the estimator was fitted with
func WithLoss(loss LossKind) Option {
	return func(c *config) {
		c.loss = loss
	}
}

// WithMultinomial selects softmax probabilities for multiclass log-loss
// models; false selects normalised one-vs-rest sigmoids.
func WithMultinomial(multinomial bool) Option {
	return func(c *config) {
		c.multinomial = multinomial
	}
}

// WithParallelThreshold sets the row count above which scoring runs in parallel
func WithParallelThreshold(rows int) Option {
	return func(c *config) {
		c.parallelThreshold = rows
	}
}

// WithWorkers caps the number of scoring goroutines (0 = runtime.NumCPU())
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithObserver installs a hook called after every scoring operation
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithLogger overrides the logger obtained from log.GetLoggerWithName
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
