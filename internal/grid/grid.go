// Package grid pairs a time mesh and a space mesh into the rectangle a
// finite-difference solve runs on, and precomputes the three-point
// derivative weights that non-uniform spacing requires.
package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/fdpde/internal/mesh"
)

// Weights are the coefficients of a three-point stencil. For an interior
// node j they apply to V[j-1], V[j], V[j+1].
type Weights [3]float64

// Grid is immutable once built and safe for concurrent reads.
type Grid struct {
	time  *mesh.Mesh
	space *mesh.Mesh
	t     []float64
	x     []float64

	first  []Weights
	second []Weights

	// one-sided first derivative at the edges; lowerEdge applies to
	// V[0], V[1], V[2] and upperEdge to V[n-3], V[n-2], V[n-1]. With only two
	// space nodes the first entry is zero and the stencil is two-point.
	lowerEdge Weights
	upperEdge Weights
}

// New builds a grid from a time mesh and a space mesh.
func New(time, space *mesh.Mesh) (*Grid, error) {
	if time == nil || space == nil {
		return nil, fmt.Errorf("grid: time and space meshes are required: %w", mesh.ErrInvalidParameter)
	}
	if time.NumPoints() < 2 || space.NumPoints() < 2 {
		return nil, fmt.Errorf("grid: degenerate mesh (%d time, %d space nodes): %w",
			time.NumPoints(), space.NumPoints(), mesh.ErrInvalidParameter)
	}

	g := &Grid{
		time:  time,
		space: space,
		t:     time.Points(),
		x:     space.Points(),
	}
	g.computeWeights()
	return g, nil
}

func (g *Grid) computeWeights() {
	n := len(g.x)
	g.first = make([]Weights, n)
	g.second = make([]Weights, n)

	for j := 1; j < n-1; j++ {
		h1 := g.x[j] - g.x[j-1]
		h2 := g.x[j+1] - g.x[j]
		s := h1 + h2
		g.first[j] = Weights{-h2 / (h1 * s), (h2 - h1) / (h1 * h2), h1 / (h2 * s)}
		g.second[j] = Weights{2 / (h1 * s), -2 / (h1 * h2), 2 / (h2 * s)}
	}

	if n == 2 {
		h := g.x[1] - g.x[0]
		g.lowerEdge = Weights{-1 / h, 1 / h, 0}
		g.upperEdge = Weights{0, -1 / h, 1 / h}
		return
	}

	h1 := g.x[1] - g.x[0]
	h2 := g.x[2] - g.x[1]
	s := h1 + h2
	g.lowerEdge = Weights{-(2*h1 + h2) / (h1 * s), s / (h1 * h2), -h1 / (h2 * s)}

	h1 = g.x[n-2] - g.x[n-3]
	h2 = g.x[n-1] - g.x[n-2]
	s = h1 + h2
	g.upperEdge = Weights{h2 / (h1 * s), -s / (h1 * h2), (h1 + 2*h2) / (h2 * s)}
}

func (g *Grid) TimeMesh() *mesh.Mesh  { return g.time }
func (g *Grid) SpaceMesh() *mesh.Mesh { return g.space }
func (g *Grid) NumTimeNodes() int     { return len(g.t) }
func (g *Grid) NumSpaceNodes() int    { return len(g.x) }
func (g *Grid) TimeAt(k int) float64  { return g.t[k] }
func (g *Grid) SpaceAt(j int) float64 { return g.x[j] }

// TimeStep returns t[k+1] - t[k].
func (g *Grid) TimeStep(k int) float64 { return g.t[k+1] - g.t[k] }

// SpaceStep returns x[j+1] - x[j].
func (g *Grid) SpaceStep(j int) float64 { return g.x[j+1] - g.x[j] }

// TimeNodes returns a copy of the time nodes.
func (g *Grid) TimeNodes() []float64 { return g.time.Points() }

// SpaceNodes returns a copy of the space nodes.
func (g *Grid) SpaceNodes() []float64 { return g.space.Points() }

// FirstDerivative returns the central first-derivative weights at interior
// node j.
func (g *Grid) FirstDerivative(j int) Weights { return g.first[j] }

// SecondDerivative returns the central second-derivative weights at interior
// node j.
func (g *Grid) SecondDerivative(j int) Weights { return g.second[j] }

// LowerEdgeDerivative returns forward weights for dV/dx at x[0], applied to
// V[0], V[1], V[2].
func (g *Grid) LowerEdgeDerivative() Weights { return g.lowerEdge }

// UpperEdgeDerivative returns backward weights for dV/dx at x[n-1], applied
// to V[n-3], V[n-2], V[n-1].
func (g *Grid) UpperEdgeDerivative() Weights { return g.upperEdge }

// TimeCell returns the index k of the cell [t[k], t[k+1]] containing t,
// after clamping t into the grid.
func (g *Grid) TimeCell(t float64) int { return cell(g.t, t) }

// SpaceCell returns the index j of the cell [x[j], x[j+1]] containing x,
// after clamping x into the grid.
func (g *Grid) SpaceCell(x float64) int { return cell(g.x, x) }

// cell maps NaN to the first cell.
func cell(nodes []float64, v float64) int {
	last := len(nodes) - 2
	if v <= nodes[0] || math.IsNaN(v) {
		return 0
	}
	if v >= nodes[last+1] {
		return last
	}
	i := sort.SearchFloat64s(nodes, v)
	if nodes[i] == v {
		return min(i, last)
	}
	return i - 1
}
