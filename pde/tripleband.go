package pde

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// ErrDivergence indicates a numerically invalid state: a vanishing
// pivot inside an implicit solve, or (in callers) a non-finite solution
// value. The computation aborts immediately; nothing is clamped.
var ErrDivergence = errors.New("pde: numerical divergence")

// pivotEps is the smallest pivot magnitude accepted by the Thomas
// sweep before the solve is declared divergent.
const pivotEps = 1e-14

// TripleBand is a tridiagonal linear operator acting along the grid
// lines of one dimension, embedded into the flat row-major solution
// vector. For the price direction the stride is 1 and each line is one
// variance level; for the variance direction the stride is NS and each
// line is one price level.
//
// lower/diag/upper hold one coefficient triple per node; the lower
// coefficient of the first node and the upper coefficient of the last
// node of every line are zero.
type TripleBand struct {
	lineLen int // nodes per line
	lines   int // number of independent lines
	stride  int // index distance between in-line neighbors
	span    int // index distance between consecutive line starts

	lower, diag, upper []float64
}

// NewTripleBand allocates a zero operator with the given line geometry.
func NewTripleBand(lineLen, lines, stride, span int) *TripleBand {
	n := lineLen * lines

	return &TripleBand{
		lineLen: lineLen,
		lines:   lines,
		stride:  stride,
		span:    span,
		lower:   make([]float64, n),
		diag:    make([]float64, n),
		upper:   make([]float64, n),
	}
}

// Size returns the total number of nodes the operator acts on.
func (op *TripleBand) Size() int { return op.lineLen * op.lines }

// Set assigns the coefficient triple of one node.
func (op *TripleBand) Set(idx int, lower, diag, upper float64) {
	op.lower[idx] = lower
	op.diag[idx] = diag
	op.upper[idx] = upper
}

// Add accumulates onto the coefficient triple of one node.
func (op *TripleBand) Add(idx int, lower, diag, upper float64) {
	op.lower[idx] += lower
	op.diag[idx] += diag
	op.upper[idx] += upper
}

// Apply computes dst = Op·u.
func (op *TripleBand) Apply(dst, u []float64) {
	for l := 0; l < op.lines; l++ {
		start := l * op.span
		for k := 0; k < op.lineLen; k++ {
			idx := start + k*op.stride
			x := op.diag[idx] * u[idx]
			if k > 0 {
				x += op.lower[idx] * u[idx-op.stride]
			}
			if k < op.lineLen-1 {
				x += op.upper[idx] * u[idx+op.stride]
			}
			dst[idx] = x
		}
	}
}

// ApplyAdd computes dst += Op·u.
func (op *TripleBand) ApplyAdd(dst, u []float64) {
	for l := 0; l < op.lines; l++ {
		start := l * op.span
		for k := 0; k < op.lineLen; k++ {
			idx := start + k*op.stride
			x := op.diag[idx] * u[idx]
			if k > 0 {
				x += op.lower[idx] * u[idx-op.stride]
			}
			if k < op.lineLen-1 {
				x += op.upper[idx] * u[idx+op.stride]
			}
			dst[idx] += x
		}
	}
}

// SolveShifted solves (I + c·Op)·x = rhs and stores x into dst.
// The system decouples into one tridiagonal solve per grid line; the
// lines are mutually independent and are swept in parallel, each by the
// Thomas algorithm. Returns ErrDivergence (with the line index) if a
// pivot vanishes.
func (op *TripleBand) SolveShifted(dst, rhs []float64, c float64) error {
	var g errgroup.Group
	for l := 0; l < op.lines; l++ {
		l := l
		g.Go(func() error {
			return op.solveLine(dst, rhs, c, l)
		})
	}

	return g.Wait()
}

// solveLine runs one Thomas sweep along line l of (I + c·Op)x = rhs.
func (op *TripleBand) solveLine(dst, rhs []float64, c float64, l int) error {
	n := op.lineLen
	start := l * op.span
	cp := make([]float64, n) // modified upper coefficients
	dp := make([]float64, n) // modified right-hand side

	idx := start
	pivot := 1 + c*op.diag[idx]
	if math.Abs(pivot) < pivotEps {
		return fmt.Errorf("%w: zero pivot at line %d, node 0", ErrDivergence, l)
	}
	cp[0] = c * op.upper[idx] / pivot
	dp[0] = rhs[idx] / pivot

	for k := 1; k < n; k++ {
		idx = start + k*op.stride
		lo := c * op.lower[idx]
		pivot = 1 + c*op.diag[idx] - lo*cp[k-1]
		if math.Abs(pivot) < pivotEps {
			return fmt.Errorf("%w: zero pivot at line %d, node %d", ErrDivergence, l, k)
		}
		if k < n-1 {
			cp[k] = c * op.upper[idx] / pivot
		}
		dp[k] = (rhs[idx] - lo*dp[k-1]) / pivot
	}

	dst[start+(n-1)*op.stride] = dp[n-1]
	for k := n - 2; k >= 0; k-- {
		dst[start+k*op.stride] = dp[k] - cp[k]*dst[start+(k+1)*op.stride]
	}

	return nil
}
