package linear

import (
	"strings"

	"github.com/YuminosukeSato/linscore/pkg/errors"
)

// LossKind is the closed set of losses a linear estimator can be fitted with.
// The loss decides both the number of weight vectors at fit time and the
// probability formula at predict time.
type LossKind int

const (
	LossHinge LossKind = iota
	LossLog
	LossModifiedHuber
	LossSquaredHinge
	LossSmoothHinge
	LossPerceptron
	LossSquared
	LossAbsolute
	LossEpsilonInsensitive
)

var lossNames = [...]string{
	LossHinge:              "hinge",
	LossLog:                "log",
	LossModifiedHuber:      "modified_huber",
	LossSquaredHinge:       "squared_hinge",
	LossSmoothHinge:        "smooth_hinge",
	LossPerceptron:         "perceptron",
	LossSquared:            "squared",
	LossAbsolute:           "absolute",
	LossEpsilonInsensitive: "epsilon_insensitive",
}

func (l LossKind) String() string {
	if l >= 0 && int(l) < len(lossNames) {
		return lossNames[l]
	}
	return "unknown"
}

// ParseLoss maps a loss name onto its LossKind. "log_loss" is accepted as
// an alias of "log".
func ParseLoss(name string) (LossKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "log_loss" {
		return LossLog, nil
	}
	for kind, s := range lossNames {
		if s == n {
			return LossKind(kind), nil
		}
	}
	return LossHinge, errors.NewValidationError("loss", "unknown loss", name)
}

// probaLosses returns the losses that admit a probability model for the
// given number of classes.
func probaLosses(nClasses int) []LossKind {
	if nClasses > 2 {
		return []LossKind{LossLog}
	}
	return []LossKind{LossLog, LossModifiedHuber}
}

// SupportsProba reports whether PredictProba is defined for this loss.
func (l LossKind) SupportsProba(nClasses int) bool {
	for _, k := range probaLosses(nClasses) {
		if k == l {
			return true
		}
	}
	return false
}

func unsupportedProba(op string, loss LossKind, nClasses int) error {
	kinds := probaLosses(nClasses)
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return errors.NewUnsupportedConfigurationError(op, loss.String(), nClasses, names...)
}
