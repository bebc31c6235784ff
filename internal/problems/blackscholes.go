package problems

import (
	"fmt"
	"math"

	"github.com/san-kum/fdpde/internal/blackscholes"
	"github.com/san-kum/fdpde/internal/grid"
	"github.com/san-kum/fdpde/internal/mesh"
	"github.com/san-kum/fdpde/internal/pde"
)

// ForwardBlackScholes evolves the forward-normalised call price C(T, k) in
// expiry T and moneyness k = K/F(T):
//
//	dC/dT = ½ σ² k² C_kk,  C(0, k) = max(1 - k, 0)
//
// Rate does not enter the equation; it only sets where the strikes of
// interest lie.
type ForwardBlackScholes struct {
	Vol  float64
	Rate float64
}

func NewForwardBlackScholes(params map[string]float64) (*ForwardBlackScholes, error) {
	p := &ForwardBlackScholes{
		Vol:  param(params, "vol", 0.2),
		Rate: param(params, "rate", 0.05),
	}
	if !(p.Vol > 0) {
		return nil, fmt.Errorf("forward black-scholes: vol %v must be positive: %w", p.Vol, pde.ErrInvalidParameter)
	}
	return p, nil
}

func (p *ForwardBlackScholes) Name() string { return "bs-forward" }

func (p *ForwardBlackScholes) Description() string {
	return "forward Black-Scholes call in moneyness, flat volatility"
}

func (p *ForwardBlackScholes) Meshes() (mesh.Spec, mesh.Spec) {
	return mesh.Spec{Kind: mesh.KindExponential, Low: 0, High: 5, Points: 51, Bunching: 5},
		mesh.Spec{Kind: mesh.KindHyperbolic, Low: 0, High: 10, Points: 101, Anchor: 1, Bunching: 0.01}
}

func (p *ForwardBlackScholes) Coefficients() pde.Coefficients {
	v := 0.5 * p.Vol * p.Vol
	return pde.FunctionCoefficients{
		A: func(_, k float64) float64 { return v * k * k },
	}
}

func (p *ForwardBlackScholes) Initial(k float64) float64 { return math.Max(1-k, 0) }

func (p *ForwardBlackScholes) Exact(t, k float64) float64 {
	return blackscholes.Price(1, k, t, p.Vol, true)
}

// StrikeRange returns the moneyness band exp((r - σ²/2) t ± n σ √t).
func (p *ForwardBlackScholes) StrikeRange(t, n float64) (low, high float64) {
	drift := (p.Rate - 0.5*p.Vol*p.Vol) * t
	width := n * p.Vol * math.Sqrt(t)
	return math.Exp(drift - width), math.Exp(drift + width)
}

func (p *ForwardBlackScholes) Bundle(g *grid.Grid) (*pde.DataBundle, error) {
	low, high := edges(g)
	lower := pde.NewConstantDirichlet(low, p.Initial(low))
	upper := pde.NewConstantDirichlet(high, p.Initial(high))
	return pde.NewDataBundle(p.Coefficients(), p.Initial, lower, upper, g)
}

// BackwardBlackScholes prices a European call in time to expiry τ and log
// spot x = ln S:
//
//	dV/dτ = ½ σ² V_xx + (r - ½ σ²) V_x - r V,  V(0, x) = max(eˣ - K, 0)
type BackwardBlackScholes struct {
	Vol    float64
	Rate   float64
	Strike float64
}

func NewBackwardBlackScholes(params map[string]float64) (*BackwardBlackScholes, error) {
	p := &BackwardBlackScholes{
		Vol:    param(params, "vol", 0.2),
		Rate:   param(params, "rate", 0.05),
		Strike: param(params, "strike", 100),
	}
	if !(p.Vol > 0) || !(p.Strike > 0) {
		return nil, fmt.Errorf("backward black-scholes: vol %v and strike %v must be positive: %w",
			p.Vol, p.Strike, pde.ErrInvalidParameter)
	}
	return p, nil
}

func (p *BackwardBlackScholes) Name() string { return "bs-backward" }

func (p *BackwardBlackScholes) Description() string {
	return "backward Black-Scholes call in log spot, flat volatility and rate"
}

func (p *BackwardBlackScholes) Meshes() (mesh.Spec, mesh.Spec) {
	x := math.Log(p.Strike)
	return mesh.Spec{Kind: mesh.KindUniform, Low: 0, High: 1, Points: 101},
		mesh.Spec{Kind: mesh.KindHyperbolic, Low: x - 2, High: x + 2, Points: 201, Anchor: x, Bunching: 0.5}
}

func (p *BackwardBlackScholes) Coefficients() pde.Coefficients {
	v := 0.5 * p.Vol * p.Vol
	return pde.ConstantCoefficients{A: v, B: p.Rate - v, C: -p.Rate}
}

func (p *BackwardBlackScholes) Initial(x float64) float64 { return math.Max(math.Exp(x)-p.Strike, 0) }

func (p *BackwardBlackScholes) Exact(tau, x float64) float64 {
	df := math.Exp(-p.Rate * tau)
	return df * blackscholes.Price(math.Exp(x)/df, p.Strike, tau, p.Vol, true)
}

func (p *BackwardBlackScholes) Bundle(g *grid.Grid) (*pde.DataBundle, error) {
	low, high := edges(g)
	lower := pde.NewConstantDirichlet(low, 0)
	upper := pde.NewDirichlet(high, func(tau float64) float64 {
		return math.Exp(high) - p.Strike*math.Exp(-p.Rate*tau)
	})
	return pde.NewDataBundle(p.Coefficients(), p.Initial, lower, upper, g)
}
