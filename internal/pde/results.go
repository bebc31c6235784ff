package pde

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/fdpde/internal/grid"
)

// Results holds the value field produced by a solve. Either every time layer
// is retained or only the first and the last. Results are immutable.
type Results struct {
	grid   *grid.Grid
	layers []int       // retained time indices, ascending
	pos    []int       // time index -> position in layers, or -1
	values [][]float64 // values[pos][spaceIndex]
	times  []float64   // time of each retained layer
}

// NewResults takes ownership of values, one slice per retained time index.
func NewResults(g *grid.Grid, timeIndices []int, values [][]float64) (*Results, error) {
	if g == nil {
		return nil, fmt.Errorf("results: grid is required: %w", ErrInvalidParameter)
	}
	if len(timeIndices) == 0 || len(timeIndices) != len(values) {
		return nil, fmt.Errorf("results: %d time indices for %d layers: %w", len(timeIndices), len(values), ErrInvalidParameter)
	}

	nT, nX := g.NumTimeNodes(), g.NumSpaceNodes()
	r := &Results{
		grid:   g,
		layers: make([]int, len(timeIndices)),
		pos:    make([]int, nT),
		values: values,
		times:  make([]float64, len(timeIndices)),
	}
	for k := range r.pos {
		r.pos[k] = -1
	}
	for i, k := range timeIndices {
		if k < 0 || k >= nT || (i > 0 && k <= timeIndices[i-1]) {
			return nil, fmt.Errorf("results: time indices must be ascending within [0, %d): %w", nT, ErrInvalidParameter)
		}
		if len(values[i]) != nX {
			return nil, fmt.Errorf("results: layer %d has %d values, grid has %d space nodes: %w", k, len(values[i]), nX, ErrInvalidParameter)
		}
		r.layers[i] = k
		r.pos[k] = i
		r.times[i] = g.TimeAt(k)
	}
	return r, nil
}

func (r *Results) Grid() *grid.Grid         { return r.grid }
func (r *Results) NumTimeNodes() int        { return r.grid.NumTimeNodes() }
func (r *Results) NumSpaceNodes() int       { return r.grid.NumSpaceNodes() }
func (r *Results) TimeValue(k int) float64  { return r.grid.TimeAt(k) }
func (r *Results) SpaceValue(j int) float64 { return r.grid.SpaceAt(j) }

// Retained reports whether time layer k was kept.
func (r *Results) Retained(k int) bool {
	return k >= 0 && k < len(r.pos) && r.pos[k] >= 0
}

// FullHistory reports whether every time layer was kept.
func (r *Results) FullHistory() bool { return len(r.layers) == len(r.pos) }

// RetainedTimeIndices returns the kept time indices in ascending order.
func (r *Results) RetainedTimeIndices() []int {
	c := make([]int, len(r.layers))
	copy(c, r.layers)
	return c
}

// ValueAt returns V at space node j and time node k, or NaN when layer k was
// not retained.
func (r *Results) ValueAt(j, k int) float64 {
	if !r.Retained(k) {
		return math.NaN()
	}
	return r.values[r.pos[k]][j]
}

// Layer returns a copy of time layer k, or nil when it was not retained.
func (r *Results) Layer(k int) []float64 {
	if !r.Retained(k) {
		return nil
	}
	src := r.values[r.pos[k]]
	c := make([]float64, len(src))
	copy(c, src)
	return c
}

// TerminalLayer returns a copy of the last time layer.
func (r *Results) TerminalLayer() []float64 {
	return r.Layer(r.grid.NumTimeNodes() - 1)
}

// Interpolate returns V at (t, x) by bilinear interpolation between
// retained layers. Points outside the grid are clamped onto its edge and a
// NaN coordinate gives NaN.
func (r *Results) Interpolate(t, x float64) float64 {
	return r.interpolate(t, x, r.linearInSpace)
}

// InterpolateCubic is like Interpolate but uses a natural cubic spline
// across space within each layer.
func (r *Results) InterpolateCubic(t, x float64) float64 {
	return r.interpolate(t, x, r.cubicInSpace)
}

func (r *Results) interpolate(t, x float64, inSpace func(p int, x float64) float64) float64 {
	if math.IsNaN(t) || math.IsNaN(x) {
		return math.NaN()
	}
	x = clamp(x, r.grid.SpaceAt(0), r.grid.SpaceAt(r.grid.NumSpaceNodes()-1))
	t = clamp(t, r.times[0], r.times[len(r.times)-1])

	p := sort.SearchFloat64s(r.times, t)
	if p < len(r.times) && r.times[p] == t {
		return inSpace(p, x)
	}
	t0, t1 := r.times[p-1], r.times[p]
	w := (t - t0) / (t1 - t0)
	return (1-w)*inSpace(p-1, x) + w*inSpace(p, x)
}

func (r *Results) linearInSpace(p int, x float64) float64 {
	j := r.grid.SpaceCell(x)
	x0, x1 := r.grid.SpaceAt(j), r.grid.SpaceAt(j+1)
	v := r.values[p]
	w := (x - x0) / (x1 - x0)
	return (1-w)*v[j] + w*v[j+1]
}

func (r *Results) cubicInSpace(p int, x float64) float64 {
	if r.grid.NumSpaceNodes() < 3 {
		return r.linearInSpace(p, x)
	}
	var spline interp.NaturalCubic
	if err := spline.Fit(r.grid.SpaceNodes(), r.values[p]); err != nil {
		return r.linearInSpace(p, x)
	}
	return spline.Predict(x)
}

// SpaceIntegral returns the trapezoid-rule integral of layer k over space,
// or NaN when the layer was not retained.
func (r *Results) SpaceIntegral(k int) float64 {
	if !r.Retained(k) {
		return math.NaN()
	}
	return integrate.Trapezoidal(r.grid.SpaceNodes(), r.values[r.pos[k]])
}

// MaxAbs returns the largest |V| over all retained layers.
func (r *Results) MaxAbs() float64 {
	m := 0.0
	for _, v := range r.values {
		m = math.Max(m, floats.Norm(v, math.Inf(1)))
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
