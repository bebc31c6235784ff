package pde

import (
	"fmt"
	"math"

	"github.com/san-kum/fdpde/internal/grid"
)

// levelTolerance is the relative slack allowed between a boundary level and
// the grid edge it claims to sit on.
const levelTolerance = 1e-12

// DataBundle is a complete, validated problem. It is immutable.
type DataBundle struct {
	coeffs  Coefficients
	initial InitialCondition
	lower   BoundaryCondition
	upper   BoundaryCondition
	grid    *grid.Grid
}

// NewDataBundle validates and aggregates the parts of a problem.
func NewDataBundle(coeffs Coefficients, initial InitialCondition, lower, upper BoundaryCondition, g *grid.Grid) (*DataBundle, error) {
	switch {
	case coeffs == nil:
		return nil, fmt.Errorf("bundle: coefficients are required: %w", ErrInvalidParameter)
	case initial == nil:
		return nil, fmt.Errorf("bundle: initial condition is required: %w", ErrInvalidParameter)
	case lower == nil || upper == nil:
		return nil, fmt.Errorf("bundle: both boundary conditions are required: %w", ErrInvalidParameter)
	case g == nil:
		return nil, fmt.Errorf("bundle: grid is required: %w", ErrInvalidParameter)
	}

	lowEdge := g.SpaceAt(0)
	highEdge := g.SpaceAt(g.NumSpaceNodes() - 1)
	if !onEdge(lower.Level(), lowEdge) {
		return nil, fmt.Errorf("bundle: lower level %v, grid starts at %v: %w", lower.Level(), lowEdge, ErrInconsistentBoundary)
	}
	if !onEdge(upper.Level(), highEdge) {
		return nil, fmt.Errorf("bundle: upper level %v, grid ends at %v: %w", upper.Level(), highEdge, ErrInconsistentBoundary)
	}

	return &DataBundle{
		coeffs:  coeffs,
		initial: initial,
		lower:   lower,
		upper:   upper,
		grid:    g,
	}, nil
}

func onEdge(level, edge float64) bool {
	return math.Abs(level-edge) <= levelTolerance*math.Max(1, math.Abs(edge))
}

func (b *DataBundle) Coefficients() Coefficients         { return b.coeffs }
func (b *DataBundle) InitialCondition() InitialCondition { return b.initial }
func (b *DataBundle) Lower() BoundaryCondition           { return b.lower }
func (b *DataBundle) Upper() BoundaryCondition           { return b.upper }
func (b *DataBundle) Grid() *grid.Grid                   { return b.grid }

// Solver turns a bundle into results. Implementations must not retain state
// between calls.
type Solver interface {
	Solve(b *DataBundle) (*Results, error)
}
