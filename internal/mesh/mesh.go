package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kind names the rule a mesh was generated with.
type Kind string

const (
	KindUniform           Kind = "uniform"
	KindExponential       Kind = "exponential"
	KindHyperbolic        Kind = "hyperbolic"
	KindDoubleExponential Kind = "double_exponential"
	KindPoints            Kind = "points"
)

// Mesh is an immutable, strictly increasing sequence of nodes covering
// [Low(), High()].
type Mesh struct {
	kind   Kind
	points []float64
}

// NewUniform returns n evenly spaced nodes on [low, high].
func NewUniform(low, high float64, n int) (*Mesh, error) {
	if err := checkInterval(low, high, n); err != nil {
		return nil, err
	}
	p := make([]float64, n)
	floats.Span(p, low, high)
	return finish(KindUniform, p, low, high)
}

// NewExponential returns n nodes on [low, high] obtained by warping a uniform
// index grid through an exponential. A positive lambda concentrates nodes near
// low, a negative lambda near high; lambda == 0 is the uniform mesh.
func NewExponential(low, high float64, n int, lambda float64) (*Mesh, error) {
	if err := checkInterval(low, high, n); err != nil {
		return nil, err
	}
	if !isFinite(lambda) {
		return nil, fmt.Errorf("exponential mesh: lambda %v: %w", lambda, ErrInvalidParameter)
	}
	if lambda == 0 {
		m, err := NewUniform(low, high, n)
		if err != nil {
			return nil, err
		}
		m.kind = KindExponential
		return m, nil
	}

	p := make([]float64, n)
	span := high - low
	denom := math.Expm1(lambda)
	last := float64(n - 1)
	for i := range p {
		p[i] = low + span*math.Expm1(lambda*float64(i)/last)/denom
	}
	return finish(KindExponential, p, low, high)
}

// NewHyperbolic returns n nodes on [low, high] clustered around anchor using a
// sinh warp. Smaller alpha gives tighter clustering; alpha must be positive.
// The anchor may lie outside the interval, in which case the nodes cluster
// towards the nearer end.
func NewHyperbolic(low, high, anchor float64, n int, alpha float64) (*Mesh, error) {
	if err := checkInterval(low, high, n); err != nil {
		return nil, err
	}
	if !isFinite(anchor) {
		return nil, fmt.Errorf("hyperbolic mesh: anchor %v: %w", anchor, ErrInvalidParameter)
	}
	if !isFinite(alpha) || alpha <= 0 {
		return nil, fmt.Errorf("hyperbolic mesh: alpha %v must be positive: %w", alpha, ErrInvalidParameter)
	}

	delta := math.Asinh((low - anchor) / alpha)
	r := math.Asinh((high-anchor)/alpha) - delta
	p := make([]float64, n)
	last := float64(n - 1)
	for i := range p {
		p[i] = anchor + alpha*math.Sinh(r*float64(i)/last+delta)
	}
	return finish(KindHyperbolic, p, low, high)
}

// NewDoubleExponential joins two exponential meshes at split. About fraction
// of the n nodes are placed in [low, split]; the split node is shared.
// lambdaLow < 0 and lambdaHigh > 0 cluster nodes around split.
func NewDoubleExponential(low, high, split float64, n int, fraction, lambdaLow, lambdaHigh float64) (*Mesh, error) {
	if err := checkInterval(low, high, n); err != nil {
		return nil, err
	}
	if n < 3 {
		return nil, fmt.Errorf("double exponential mesh: need at least 3 nodes, got %d: %w", n, ErrInvalidParameter)
	}
	if !(split > low && split < high) {
		return nil, fmt.Errorf("double exponential mesh: split %v outside (%v, %v): %w", split, low, high, ErrInvalidParameter)
	}
	if !(fraction > 0 && fraction < 1) {
		return nil, fmt.Errorf("double exponential mesh: fraction %v outside (0, 1): %w", fraction, ErrInvalidParameter)
	}

	nLow := int(math.Round(fraction * float64(n)))
	nLow = max(2, min(nLow, n-1))
	nHigh := n - nLow + 1

	lower, err := NewExponential(low, split, nLow, lambdaLow)
	if err != nil {
		return nil, fmt.Errorf("double exponential mesh, lower part: %w", err)
	}
	upper, err := NewExponential(split, high, nHigh, lambdaHigh)
	if err != nil {
		return nil, fmt.Errorf("double exponential mesh, upper part: %w", err)
	}

	p := make([]float64, 0, n)
	p = append(p, lower.points...)
	p = append(p, upper.points[1:]...)
	return finish(KindDoubleExponential, p, low, high)
}

// FromPoints builds a mesh from explicit nodes. The input is copied.
func FromPoints(points []float64) (*Mesh, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("point mesh: need at least 2 nodes, got %d: %w", len(points), ErrInvalidParameter)
	}
	p := make([]float64, len(points))
	for i, v := range points {
		if !isFinite(v) {
			return nil, fmt.Errorf("point mesh: node %d is %v: %w", i, v, ErrInvalidParameter)
		}
		p[i] = v
	}
	return finish(KindPoints, p, p[0], p[len(p)-1])
}

func (m *Mesh) Kind() Kind     { return m.kind }
func (m *Mesh) NumPoints() int { return len(m.points) }
func (m *Mesh) Low() float64   { return m.points[0] }
func (m *Mesh) High() float64  { return m.points[len(m.points)-1] }

// At returns node i. It panics if i is out of range.
func (m *Mesh) At(i int) float64 { return m.points[i] }

// Points returns a copy of the nodes.
func (m *Mesh) Points() []float64 {
	c := make([]float64, len(m.points))
	copy(c, m.points)
	return c
}

func checkInterval(low, high float64, n int) error {
	if n < 2 {
		return fmt.Errorf("mesh needs at least 2 nodes, got %d: %w", n, ErrInvalidParameter)
	}
	if !isFinite(low) || !isFinite(high) {
		return fmt.Errorf("mesh bounds [%v, %v] not finite: %w", low, high, ErrInvalidParameter)
	}
	if high <= low {
		return fmt.Errorf("mesh bounds [%v, %v] inverted or empty: %w", low, high, ErrInvalidParameter)
	}
	return nil
}

// finish pins the end nodes and rejects anything that is not strictly
// increasing, which is how over-aggressive bunching parameters surface.
func finish(kind Kind, p []float64, low, high float64) (*Mesh, error) {
	p[0] = low
	p[len(p)-1] = high
	if i := firstNonIncreasing(p); i > 0 {
		return nil, fmt.Errorf("%s mesh not strictly increasing at node %d (%v after %v): %w",
			kind, i, p[i], p[i-1], ErrInvalidParameter)
	}
	return &Mesh{kind: kind, points: p}, nil
}

// firstNonIncreasing returns the first index i with !(p[i] > p[i-1]), which
// also catches NaN, or -1 when the sequence is strictly increasing.
func firstNonIncreasing(p []float64) int {
	if floats.HasNaN(p) {
		for i := range p {
			if math.IsNaN(p[i]) {
				return max(i, 1)
			}
		}
	}
	for i := 1; i < len(p); i++ {
		if !(p[i] > p[i-1]) {
			return i
		}
	}
	return -1
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
