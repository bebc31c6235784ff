// Package problems provides ready-made coefficient sets, initial conditions
// and boundary conditions for a few equations with known behaviour.
package problems

import (
	"github.com/san-kum/fdpde/internal/grid"
	"github.com/san-kum/fdpde/internal/mesh"
	"github.com/san-kum/fdpde/internal/pde"
)

// Problem builds a bundle on a caller-supplied grid.
type Problem interface {
	Name() string
	Description() string
	// Meshes returns a reasonable default time and space mesh.
	Meshes() (time, space mesh.Spec)
	Bundle(g *grid.Grid) (*pde.DataBundle, error)
}

// Analytic is implemented by problems with a closed-form solution.
type Analytic interface {
	Exact(t, x float64) float64
}

func param(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return def
}

func edges(g *grid.Grid) (low, high float64) {
	return g.SpaceAt(0), g.SpaceAt(g.NumSpaceNodes() - 1)
}
