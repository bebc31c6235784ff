package solver

import (
	"fmt"

	"github.com/san-kum/fdpde/internal/grid"
	"github.com/san-kum/fdpde/internal/pde"
	"github.com/san-kum/fdpde/internal/tridiag"
)

// ThetaMethod solves a bundle with the theta finite-difference scheme. It
// keeps no state between calls and may be shared between goroutines.
type ThetaMethod struct {
	cfg Config
}

var _ pde.Solver = (*ThetaMethod)(nil)

func NewThetaMethod(cfg Config) (*ThetaMethod, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("theta method: %w", err)
	}
	return &ThetaMethod{cfg: cfg}, nil
}

func (m *ThetaMethod) Config() Config { return m.cfg }

// Solve marches the initial layer forward through every time node of the
// bundle's grid. On failure no results are returned and the error is a
// *pde.SolveError naming the layer that could not be computed.
func (m *ThetaMethod) Solve(b *pde.DataBundle) (*pde.Results, error) {
	if b == nil {
		return nil, fmt.Errorf("theta method: bundle is required: %w", pde.ErrInvalidParameter)
	}
	g := b.Grid()
	nT, nX := g.NumTimeNodes(), g.NumSpaceNodes()

	cur := make([]float64, nX)
	initial := b.InitialCondition()
	for j := range cur {
		cur[j] = initial(g.SpaceAt(j))
	}

	keep := 2
	if m.cfg.RetainHistory {
		keep = nT
	}
	indices := make([]int, 0, keep)
	layers := make([][]float64, 0, keep)
	retain := func(k int, v []float64) {
		indices = append(indices, k)
		layers = append(layers, append([]float64(nil), v...))
	}
	retain(0, cur)

	s := newStepper(b)
	next := make([]float64, nX)
	for k := 0; k < nT-1; k++ {
		if err := m.advance(s, k, cur, next); err != nil {
			return nil, &pde.SolveError{
				Step:    k + 1,
				Time:    g.TimeAt(k + 1),
				Wrapped: fmt.Errorf("%w: %w", pde.ErrSingularSystem, err),
			}
		}
		cur, next = next, cur
		if m.cfg.RetainHistory || k+1 == nT-1 {
			retain(k+1, cur)
		}
	}

	return pde.NewResults(g, indices, layers)
}

// advance computes layer k+1 from layer k, splitting the interval when the
// correction covers it. cur is left untouched.
func (m *ThetaMethod) advance(s *stepper, k int, cur, next []float64) error {
	t0, t1 := s.grid.TimeAt(k), s.grid.TimeAt(k+1)
	c := m.cfg.Correction
	if k >= c.Steps {
		return s.step(cur, next, t0, t1, m.cfg.Theta)
	}

	n := c.SubSteps
	h := (t1 - t0) / float64(n)
	src := cur
	for i := 0; i < n; i++ {
		ta, tb := t0+float64(i)*h, t0+float64(i+1)*h
		if i == n-1 {
			tb = t1
		}
		// alternate buffers so the last sub-step lands in next
		dst := next
		if (n-1-i)%2 == 1 {
			dst = s.spare
		}
		if err := s.step(src, dst, ta, tb, c.Theta); err != nil {
			return err
		}
		src = dst
	}
	return nil
}

// operator holds the discrete spatial operator A V_{j-1} + B V_j + C V_{j+1}
// at one time.
type operator struct {
	t     float64
	valid bool
	lo    []float64
	mid   []float64
	hi    []float64
}

// stepper is the per-solve workspace.
type stepper struct {
	grid   *grid.Grid
	coeffs pde.Coefficients
	lower  pde.BoundaryCondition
	upper  pde.BoundaryCondition

	sub, diag, sup, rhs []float64
	spare               []float64
	ws                  *tridiag.Workspace
	ops                 [2]operator
}

func newStepper(b *pde.DataBundle) *stepper {
	n := b.Grid().NumSpaceNodes()
	s := &stepper{
		grid:   b.Grid(),
		coeffs: b.Coefficients(),
		lower:  b.Lower(),
		upper:  b.Upper(),
		sub:    make([]float64, n),
		diag:   make([]float64, n),
		sup:    make([]float64, n),
		rhs:    make([]float64, n),
		spare:  make([]float64, n),
		ws:     tridiag.NewWorkspace(n),
	}
	for i := range s.ops {
		s.ops[i].lo = make([]float64, n)
		s.ops[i].mid = make([]float64, n)
		s.ops[i].hi = make([]float64, n)
	}
	return s
}

// operatorAt returns the operator at time t, reusing a cached one when the
// time matches. The slot held by keep is never overwritten.
func (s *stepper) operatorAt(t float64, keep *operator) *operator {
	for i := range s.ops {
		if s.ops[i].valid && s.ops[i].t == t {
			return &s.ops[i]
		}
	}
	op := &s.ops[0]
	if op == keep {
		op = &s.ops[1]
	}

	n := s.grid.NumSpaceNodes()
	for j := 1; j < n-1; j++ {
		a, b, c := s.coeffs.Coefficients(t, s.grid.SpaceAt(j))
		d, f := s.grid.SecondDerivative(j), s.grid.FirstDerivative(j)
		op.lo[j] = a*d[0] + b*f[0]
		op.mid[j] = a*d[1] + b*f[1] + c
		op.hi[j] = a*d[2] + b*f[2]
	}
	op.t, op.valid = t, true
	return op
}

// step advances v at t0 to out at t1 with the given theta.
func (s *stepper) step(v, out []float64, t0, t1, theta float64) error {
	n := len(v)
	dt := t1 - t0

	var explicit, implicit *operator
	if theta < 1 {
		explicit = s.operatorAt(t0, nil)
	}
	if theta > 0 {
		implicit = s.operatorAt(t1, explicit)
	}

	for j := 1; j < n-1; j++ {
		r := v[j]
		if explicit != nil {
			r += (1 - theta) * dt * (explicit.lo[j]*v[j-1] + explicit.mid[j]*v[j] + explicit.hi[j]*v[j+1])
		}
		s.rhs[j] = r

		if implicit != nil {
			s.sub[j] = -theta * dt * implicit.lo[j]
			s.diag[j] = 1 - theta*dt*implicit.mid[j]
			s.sup[j] = -theta * dt * implicit.hi[j]
		} else {
			s.sub[j], s.diag[j], s.sup[j] = 0, 1, 0
		}
	}

	s.lowerRow(t1)
	s.upperRow(t1)
	return s.ws.Solve(s.sub, s.diag, s.sup, s.rhs, out)
}

// lowerRow fills row 0. Interior rows must already be set.
func (s *stepper) lowerRow(t float64) {
	s.sub[0] = 0
	switch bc := s.lower.(type) {
	case *pde.Neumann:
		target := bc.Derivative(t, true)
		w := s.grid.LowerEdgeDerivative()
		n := s.grid.NumSpaceNodes()
		if n > 2 && s.sup[1] != 0 {
			// eliminate V[2] with row 1
			f := w[2] / s.sup[1]
			s.diag[0] = w[0] - f*s.sub[1]
			s.sup[0] = w[1] - f*s.diag[1]
			s.rhs[0] = target - f*s.rhs[1]
			return
		}
		h := s.grid.SpaceStep(0)
		s.diag[0], s.sup[0], s.rhs[0] = -1/h, 1/h, target
	default:
		s.diag[0], s.sup[0], s.rhs[0] = 1, 0, s.lower.Value(t)
	}
}

// upperRow fills row n-1. Interior rows must already be set.
func (s *stepper) upperRow(t float64) {
	n := s.grid.NumSpaceNodes()
	last := n - 1
	s.sup[last] = 0
	switch bc := s.upper.(type) {
	case *pde.Neumann:
		target := bc.Derivative(t, false)
		w := s.grid.UpperEdgeDerivative()
		if n > 2 && s.sub[last-1] != 0 {
			// eliminate V[n-3] with row n-2
			f := w[0] / s.sub[last-1]
			s.sub[last] = w[1] - f*s.diag[last-1]
			s.diag[last] = w[2] - f*s.sup[last-1]
			s.rhs[last] = target - f*s.rhs[last-1]
			return
		}
		h := s.grid.SpaceStep(last - 1)
		s.sub[last], s.diag[last], s.rhs[last] = -1/h, 1/h, target
	default:
		s.sub[last], s.diag[last], s.rhs[last] = 0, 1, s.upper.Value(t)
	}
}
