package problems

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/fdpde/internal/grid"
	"github.com/san-kum/fdpde/internal/mesh"
	"github.com/san-kum/fdpde/internal/pde"
)

func defaultGrid(t *testing.T, p Problem) *grid.Grid {
	t.Helper()
	ts, xs := p.Meshes()
	tm, err := mesh.Build(ts)
	if err != nil {
		t.Fatalf("time mesh: %v", err)
	}
	xm, err := mesh.Build(xs)
	if err != nil {
		t.Fatalf("space mesh: %v", err)
	}
	g, err := grid.New(tm, xm)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func mustProblems(t *testing.T) []Problem {
	t.Helper()
	dirichlet, err := NewHeat(nil, false)
	if err != nil {
		t.Fatal(err)
	}
	neumann, err := NewHeat(map[string]float64{"diffusivity": 0.5, "low": -1, "high": 1}, true)
	if err != nil {
		t.Fatal(err)
	}
	fwd, err := NewForwardBlackScholes(nil)
	if err != nil {
		t.Fatal(err)
	}
	bwd, err := NewBackwardBlackScholes(map[string]float64{"strike": 1})
	if err != nil {
		t.Fatal(err)
	}
	return []Problem{dirichlet, neumann, fwd, bwd}
}

func TestDefaultMeshesBuildBundles(t *testing.T) {
	for _, p := range mustProblems(t) {
		t.Run(p.Name(), func(t *testing.T) {
			g := defaultGrid(t, p)
			b, err := p.Bundle(g)
			if err != nil {
				t.Fatalf("Bundle: %v", err)
			}
			if p.Description() == "" {
				t.Error("missing description")
			}

			// boundary values agree with the initial data at t0
			x0, xn := edges(g)
			t0 := g.TimeAt(0)
			for _, c := range []struct {
				bc pde.BoundaryCondition
				x  float64
			}{{b.Lower(), x0}, {b.Upper(), xn}} {
				if _, ok := c.bc.(*pde.Dirichlet); !ok {
					continue
				}
				if got, want := c.bc.Value(t0), b.InitialCondition()(c.x); math.Abs(got-want) > 1e-12 {
					t.Errorf("boundary at %v = %v, initial = %v", c.x, got, want)
				}
			}
		})
	}
}

func TestExactMatchesInitial(t *testing.T) {
	for _, p := range mustProblems(t) {
		a, ok := p.(Analytic)
		if !ok {
			continue
		}
		g := defaultGrid(t, p)
		b, err := p.Bundle(g)
		if err != nil {
			t.Fatal(err)
		}
		for j := 0; j < g.NumSpaceNodes(); j += 7 {
			x := g.SpaceAt(j)
			if got, want := a.Exact(0, x), b.InitialCondition()(x); math.Abs(got-want) > 1e-12 {
				t.Errorf("%s: Exact(0, %v) = %v, initial = %v", p.Name(), x, got, want)
			}
		}
	}
}

// The heat solutions must satisfy the PDE; check with central differences.
func TestHeatExactSolvesPDE(t *testing.T) {
	for _, insulated := range []bool{false, true} {
		h, err := NewHeat(map[string]float64{"diffusivity": 0.7, "high": 2}, insulated)
		if err != nil {
			t.Fatal(err)
		}
		const e = 1e-4
		for _, x := range []float64{0.3, 1.1, 1.7} {
			tt := 0.2
			dt := (h.Exact(tt+e, x) - h.Exact(tt-e, x)) / (2 * e)
			dxx := (h.Exact(tt, x+e) - 2*h.Exact(tt, x) + h.Exact(tt, x-e)) / (e * e)
			if math.Abs(dt-0.7*dxx) > 1e-5 {
				t.Errorf("%s at x=%v: V_t = %v, k V_xx = %v", h.Name(), x, dt, 0.7*dxx)
			}
		}
	}
}

func TestBackwardExactSolvesPDE(t *testing.T) {
	p, err := NewBackwardBlackScholes(map[string]float64{"vol": 0.3, "rate": 0.04, "strike": 1})
	if err != nil {
		t.Fatal(err)
	}
	a, b, c := p.Coefficients().Coefficients(0, 0)
	const e = 1e-4
	for _, x := range []float64{-0.3, 0, 0.25} {
		tau := 0.5
		v := p.Exact(tau, x)
		dt := (p.Exact(tau+e, x) - p.Exact(tau-e, x)) / (2 * e)
		dx := (p.Exact(tau, x+e) - p.Exact(tau, x-e)) / (2 * e)
		dxx := (p.Exact(tau, x+e) - 2*v + p.Exact(tau, x-e)) / (e * e)
		if rhs := a*dxx + b*dx + c*v; math.Abs(dt-rhs) > 1e-5 {
			t.Errorf("x=%v: V_τ = %v, operator = %v", x, dt, rhs)
		}
	}
}

func TestStrikeRange(t *testing.T) {
	p := &ForwardBlackScholes{Vol: 0.2, Rate: 0.05}
	lo, hi := p.StrikeRange(1, 3)
	if math.Abs(lo-math.Exp(0.03-0.6)) > 1e-15 || math.Abs(hi-math.Exp(0.03+0.6)) > 1e-15 {
		t.Errorf("StrikeRange(1, 3) = (%v, %v)", lo, hi)
	}
}

func errOf(_ any, err error) error { return err }

func TestInvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"heat zero diffusivity", errOf(NewHeat(map[string]float64{"diffusivity": 0}, false))},
		{"heat empty interval", errOf(NewHeat(map[string]float64{"low": 1, "high": 1}, true))},
		{"forward negative vol", errOf(NewForwardBlackScholes(map[string]float64{"vol": -0.1}))},
		{"backward zero strike", errOf(NewBackwardBlackScholes(map[string]float64{"strike": 0}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, pde.ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", tt.err)
			}
		})
	}
}
