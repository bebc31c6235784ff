package problems

import (
	"fmt"
	"math"

	"github.com/san-kum/fdpde/internal/grid"
	"github.com/san-kum/fdpde/internal/mesh"
	"github.com/san-kum/fdpde/internal/pde"
)

// Heat is dV/dt = k V_xx on [Low, High] starting from a single cosine or
// sine mode. With Insulated the edges carry zero-flux Neumann conditions and
// the initial data 1 + cos; otherwise they are held at zero and the initial
// data is sin. Either way the mode decays as exp(-k (π/L)² t).
type Heat struct {
	Diffusivity float64
	Low, High   float64
	Insulated   bool
}

func NewHeat(params map[string]float64, insulated bool) (*Heat, error) {
	h := &Heat{
		Diffusivity: param(params, "diffusivity", 1),
		Low:         param(params, "low", 0),
		High:        param(params, "high", 1),
		Insulated:   insulated,
	}
	if !(h.Diffusivity > 0) {
		return nil, fmt.Errorf("heat: diffusivity %v must be positive: %w", h.Diffusivity, pde.ErrInvalidParameter)
	}
	if !(h.High > h.Low) {
		return nil, fmt.Errorf("heat: empty interval [%v, %v]: %w", h.Low, h.High, pde.ErrInvalidParameter)
	}
	return h, nil
}

func (h *Heat) Name() string {
	if h.Insulated {
		return "heat-neumann"
	}
	return "heat-dirichlet"
}

func (h *Heat) Description() string {
	if h.Insulated {
		return "heat equation, insulated ends, cosine mode"
	}
	return "heat equation, ends held at zero, sine mode"
}

func (h *Heat) Meshes() (mesh.Spec, mesh.Spec) {
	return mesh.Spec{Kind: mesh.KindUniform, Low: 0, High: 0.5, Points: 51},
		mesh.Spec{Kind: mesh.KindUniform, Low: h.Low, High: h.High, Points: 51}
}

func (h *Heat) wave() float64 { return math.Pi / (h.High - h.Low) }

func (h *Heat) Initial(x float64) float64 { return h.Exact(0, x) }

func (h *Heat) Exact(t, x float64) float64 {
	w := h.wave()
	decay := math.Exp(-h.Diffusivity * w * w * t)
	if h.Insulated {
		return 1 + 0.5*decay*math.Cos(w*(x-h.Low))
	}
	return decay * math.Sin(w*(x-h.Low))
}

func (h *Heat) Bundle(g *grid.Grid) (*pde.DataBundle, error) {
	low, high := edges(g)
	var lower, upper pde.BoundaryCondition
	if h.Insulated {
		lower = pde.NewConstantNeumann(low, 0, true)
		upper = pde.NewConstantNeumann(high, 0, true)
	} else {
		lower = pde.NewConstantDirichlet(low, 0)
		upper = pde.NewConstantDirichlet(high, 0)
	}
	return pde.NewDataBundle(pde.ConstantCoefficients{A: h.Diffusivity}, h.Initial, lower, upper, g)
}
