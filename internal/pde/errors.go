package pde

import (
	"errors"
	"fmt"

	"github.com/san-kum/fdpde/internal/mesh"
)

// Domain errors for problem construction and solving.
var (
	// ErrInvalidParameter indicates a malformed request: bad mesh, missing
	// problem part or out-of-range solver setting.
	ErrInvalidParameter = mesh.ErrInvalidParameter

	// ErrInconsistentBoundary indicates a boundary level that does not sit on
	// the corresponding grid edge.
	ErrInconsistentBoundary = errors.New("pde: boundary level does not match grid edge")

	// ErrSingularSystem indicates a zero pivot in the tridiagonal solve.
	ErrSingularSystem = errors.New("pde: singular tridiagonal system")
)

// SolveError wraps a failure with the time step it occurred in.
type SolveError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
