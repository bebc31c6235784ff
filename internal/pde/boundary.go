package pde

// TimeFunction is a boundary value as a function of time.
type TimeFunction func(t float64) float64

// BoundaryCondition constrains the solution at one grid edge. The set of
// implementations is closed: [Dirichlet] and [Neumann].
type BoundaryCondition interface {
	// Level is the space coordinate the condition applies at.
	Level() float64
	// Value is the constrained quantity at time t.
	Value(t float64) float64

	boundary()
}

// Dirichlet fixes V(t, level) = f(t).
type Dirichlet struct {
	level float64
	fn    TimeFunction
}

// NewDirichlet returns a Dirichlet condition with a time-dependent value.
func NewDirichlet(level float64, fn TimeFunction) *Dirichlet {
	return &Dirichlet{level: level, fn: fn}
}

// NewConstantDirichlet returns a Dirichlet condition with a fixed value.
func NewConstantDirichlet(level, value float64) *Dirichlet {
	return &Dirichlet{level: level, fn: func(float64) float64 { return value }}
}

func (d *Dirichlet) Level() float64          { return d.level }
func (d *Dirichlet) Value(t float64) float64 { return d.fn(t) }
func (d *Dirichlet) boundary()               {}

// Neumann fixes the normal derivative of V at the level. When outward is
// true Value(t) is the derivative along the outward normal (towards -x at the
// lower edge, +x at the upper edge), otherwise along the inward normal.
type Neumann struct {
	level   float64
	fn      TimeFunction
	outward bool
}

// NewNeumann returns a Neumann condition with a time-dependent value.
func NewNeumann(level float64, fn TimeFunction, outward bool) *Neumann {
	return &Neumann{level: level, fn: fn, outward: outward}
}

// NewConstantNeumann returns a Neumann condition with a fixed value.
func NewConstantNeumann(level, value float64, outward bool) *Neumann {
	return &Neumann{level: level, fn: func(float64) float64 { return value }, outward: outward}
}

func (n *Neumann) Level() float64          { return n.level }
func (n *Neumann) Value(t float64) float64 { return n.fn(t) }
func (n *Neumann) Outward() bool           { return n.outward }
func (n *Neumann) boundary()               {}

// Derivative returns dV/dx (along +x) at time t for a condition sitting on
// the lower edge when lower is true, or on the upper edge otherwise.
func (n *Neumann) Derivative(t float64, lower bool) float64 {
	v := n.fn(t)
	// the outward normal points along -x only at the lower edge
	if n.outward == lower {
		return -v
	}
	return v
}
