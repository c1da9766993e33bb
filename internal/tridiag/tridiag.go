// Package tridiag implements the Thomas algorithm, a direct O(n) solver
// for tridiagonal linear systems. All implicit diffusion schemes reduce to
// sequences of these solves.
package tridiag

import (
	"errors"
	"math"
)

// PivotEpsilon is the magnitude below which an effective pivot is treated
// as degenerate. The solver refuses to divide by anything smaller.
const PivotEpsilon = 1e-15

var (
	// ErrDegeneratePivot reports a near-zero pivot. The solution slice then
	// holds the unmodified right-hand side as a best-effort result so an
	// interactive caller can keep stepping instead of crashing.
	ErrDegeneratePivot = errors.New("tridiag: degenerate pivot")

	// ErrShape reports coefficient slices of unequal length.
	ErrShape = errors.New("tridiag: coefficient slices must share one length")
)

// Solver holds scratch buffers so repeated solves of equal size, such as
// the per-row sweeps of a 2D splitting scheme, do not allocate.
type Solver struct {
	cp, dp []float64
}

func NewSolver(n int) *Solver {
	return &Solver{cp: make([]float64, n), dp: make([]float64, n)}
}

// Solve computes x from a*x[i-1] + b*x[i] + c*x[i+1] = d[i]. a[0] and
// c[n-1] are ignored by convention. On a degenerate pivot x is set to a
// copy of d and ErrDegeneratePivot is returned.
func (s *Solver) Solve(a, b, c, d, x []float64) error {
	n := len(b)
	if len(a) != n || len(c) != n || len(d) != n || len(x) != n {
		return ErrShape
	}
	if n == 0 {
		return nil
	}
	if len(s.cp) < n {
		s.cp = make([]float64, n)
		s.dp = make([]float64, n)
	}
	if math.Abs(b[0]) < PivotEpsilon {
		copy(x, d)
		return ErrDegeneratePivot
	}
	s.cp[0] = c[0] / b[0]
	s.dp[0] = d[0] / b[0]
	for i := 1; i < n; i++ {
		piv := b[i] - a[i]*s.cp[i-1]
		if math.Abs(piv) < PivotEpsilon {
			copy(x, d)
			return ErrDegeneratePivot
		}
		s.cp[i] = c[i] / piv
		s.dp[i] = (d[i] - a[i]*s.dp[i-1]) / piv
	}
	x[n-1] = s.dp[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = s.dp[i] - s.cp[i]*x[i+1]
	}
	return nil
}
