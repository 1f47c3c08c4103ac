package linear

import (
	"github.com/YuminosukeSato/linscore/core/parallel"
	"gonum.org/v1/gonum/mat"
)

// safeSparseDot returns X·Wᵗ as an (n × R) dense matrix. When X exposes
// its non-zeros (mat.RowNonZeroDoer, e.g. *sparse.CSR) only the stored
// entries are visited and X is never densified. The second return value
// reports which path was taken.
func safeSparseDot(X mat.Matrix, W *mat.Dense, threshold, workers int) (*mat.Dense, bool) {
	n, _ := X.Dims()
	r, _ := W.Dims()
	out := mat.NewDense(n, r, nil)

	if _, dense := X.(*mat.Dense); !dense {
		if nz, ok := X.(mat.RowNonZeroDoer); ok {
			parallel.ParallelizeWithThreshold(n, threshold, workers, func(start, end int) {
				for i := start; i < end; i++ {
					row := out.RawRowView(i)
					nz.DoRowNonZero(i, func(_, j int, v float64) {
						for k := range row {
							row[k] += v * W.At(k, j)
						}
					})
				}
			})
			return out, true
		}
	}

	if n <= threshold {
		out.Mul(X, W.T())
		return out, false
	}

	// 行ブロックごとに BLAS を呼ぶ。各ゴルーチンは自分の行範囲だけに書き込む
	parallel.Parallelize(n, workers, func(start, end int) {
		dst := out.Slice(start, end, 0, r).(*mat.Dense)
		dst.Mul(rowBlock(X, start, end), W.T())
	})
	return out, false
}

// rowBlock returns rows [start, end) of X without copying when possible.
func rowBlock(X mat.Matrix, start, end int) mat.Matrix {
	_, c := X.Dims()
	if s, ok := X.(interface {
		Slice(i, k, j, l int) mat.Matrix
	}); ok {
		return s.Slice(start, end, 0, c)
	}
	block := mat.NewDense(end-start, c, nil)
	for i := start; i < end; i++ {
		for j := 0; j < c; j++ {
			block.Set(i-start, j, X.At(i, j))
		}
	}
	return block
}

// addIntercept broadcasts b across the rows of m in place. A nil b is a no-op.
// A single-element b is a scalar bias added to every column.
func addIntercept(m *mat.Dense, b []float64) {
	if b == nil {
		return
	}
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		for k := range row {
			if len(b) == 1 {
				row[k] += b[0]
			} else {
				row[k] += b[k]
			}
		}
	}
}
