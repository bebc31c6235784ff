// Package tridiag solves tridiagonal linear systems with the Thomas
// algorithm.
package tridiag

import (
	"errors"
	"fmt"
	"math"
)

// ErrZeroPivot is returned when elimination meets a pivot that is zero
// relative to its row.
var ErrZeroPivot = errors.New("tridiag: zero pivot")

// pivotTolerance scales the row magnitude below which a pivot counts as zero.
const pivotTolerance = 1e-14

// PivotError reports the row at which elimination broke down.
type PivotError struct {
	Row int
}

func (e *PivotError) Error() string {
	return fmt.Sprintf("%v at row %d", ErrZeroPivot, e.Row)
}

func (e *PivotError) Unwrap() error { return ErrZeroPivot }

// Workspace holds the scratch arrays of one solve size. It is not safe for
// concurrent use; give each goroutine its own.
type Workspace struct {
	sup []float64
	rhs []float64
}

// NewWorkspace returns scratch space for systems of n unknowns.
func NewWorkspace(n int) *Workspace {
	return &Workspace{sup: make([]float64, n), rhs: make([]float64, n)}
}

// Size returns the number of unknowns the workspace was built for.
func (w *Workspace) Size() int { return len(w.sup) }

// Solve writes the solution of the system into x. Row i reads
//
//	sub[i] x[i-1] + diag[i] x[i] + sup[i] x[i+1] = rhs[i]
//
// sub[0] and sup[n-1] are ignored. The inputs are not modified; x may alias
// rhs.
func (w *Workspace) Solve(sub, diag, sup, rhs, x []float64) error {
	n := len(diag)
	if len(sub) != n || len(sup) != n || len(rhs) != n || len(x) != n || len(w.sup) != n {
		return fmt.Errorf("tridiag: size mismatch, workspace %d, diag %d, sub %d, sup %d, rhs %d, x %d",
			len(w.sup), n, len(sub), len(sup), len(rhs), len(x))
	}
	if n == 0 {
		return nil
	}

	for i := 0; i < n; i++ {
		var lower, upper, prevSup, prevRHS float64
		if i > 0 {
			lower, prevSup, prevRHS = sub[i], w.sup[i-1], w.rhs[i-1]
		}
		if i < n-1 {
			upper = sup[i]
		}
		denom := diag[i] - lower*prevSup
		if isZeroPivot(denom, diag[i], lower, upper) {
			return &PivotError{Row: i}
		}
		w.sup[i] = upper / denom
		w.rhs[i] = (rhs[i] - lower*prevRHS) / denom
	}

	x[n-1] = w.rhs[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = w.rhs[i] - w.sup[i]*x[i+1]
	}
	return nil
}

// Solve is a convenience wrapper that allocates its own workspace.
func Solve(sub, diag, sup, rhs []float64) ([]float64, error) {
	x := make([]float64, len(diag))
	if err := NewWorkspace(len(diag)).Solve(sub, diag, sup, rhs, x); err != nil {
		return nil, err
	}
	return x, nil
}

func isZeroPivot(pivot, diag, sub, sup float64) bool {
	scale := math.Abs(diag) + math.Abs(sub) + math.Abs(sup)
	return math.Abs(pivot) <= pivotTolerance*scale
}
