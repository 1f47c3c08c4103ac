package linear

import "gonum.org/v1/gonum/mat"

// WeightKind tags which representation a WeightSource holds.
type WeightKind int

const (
	// WeightsPrimal is a coefficient matrix over input features (coef_).
	WeightsPrimal WeightKind = iota
	// WeightsDual is a coefficient matrix over training samples (dual_coef_).
	WeightsDual
)

func (k WeightKind) String() string {
	if k == WeightsDual {
		return "dual"
	}
	return "primal"
}

// WeightSource is the fitted weight matrix together with its representation.
type WeightSource struct {
	kind WeightKind
	m    *mat.Dense
}

// Primal wraps a coefficient matrix of shape (n_vectors, n_features).
func Primal(coef *mat.Dense) WeightSource {
	return WeightSource{kind: WeightsPrimal, m: coef}
}

// Dual wraps a dual coefficient matrix of shape (n_vectors, n_samples).
func Dual(dualCoef *mat.Dense) WeightSource {
	return WeightSource{kind: WeightsDual, m: dualCoef}
}

// Kind returns the representation.
func (w WeightSource) Kind() WeightKind { return w.kind }

// Matrix returns the underlying matrix; nil when nothing was installed.
func (w WeightSource) Matrix() *mat.Dense { return w.m }

// Dims returns the matrix shape, (0, 0) when empty.
func (w WeightSource) Dims() (rows, cols int) {
	if w.m == nil || w.m.IsEmpty() {
		return 0, 0
	}
	return w.m.Dims()
}
