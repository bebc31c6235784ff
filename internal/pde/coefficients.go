package pde

// Coefficients supplies the a, b and c terms of
// dV/dt = a V_xx + b V_x + c V at (t, x). Implementations must be pure.
type Coefficients interface {
	Coefficients(t, x float64) (a, b, c float64)
}

// InitialCondition gives V at the first time layer.
type InitialCondition func(x float64) float64

// ConstantCoefficients is a PDE whose coefficients do not vary.
type ConstantCoefficients struct {
	A, B, C float64
}

func (k ConstantCoefficients) Coefficients(_, _ float64) (float64, float64, float64) {
	return k.A, k.B, k.C
}

// FunctionCoefficients evaluates closed-form coefficient functions. A nil
// function contributes zero.
type FunctionCoefficients struct {
	A, B, C func(t, x float64) float64
}

func (f FunctionCoefficients) Coefficients(t, x float64) (a, b, c float64) {
	if f.A != nil {
		a = f.A(t, x)
	}
	if f.B != nil {
		b = f.B(t, x)
	}
	if f.C != nil {
		c = f.C(t, x)
	}
	return a, b, c
}

// Surface is a scalar field over (t, x), typically an interpolated market
// surface supplied from outside this module.
type Surface interface {
	ZValue(t, x float64) float64
}

// ConstantSurface is a flat surface.
type ConstantSurface float64

func (s ConstantSurface) ZValue(_, _ float64) float64 { return float64(s) }

// FunctionSurface adapts a function to a Surface.
type FunctionSurface func(t, x float64) float64

func (f FunctionSurface) ZValue(t, x float64) float64 { return f(t, x) }

// SurfaceCoefficients reads each coefficient off a surface. A nil surface
// contributes zero.
type SurfaceCoefficients struct {
	A, B, C Surface
}

func (s SurfaceCoefficients) Coefficients(t, x float64) (a, b, c float64) {
	if s.A != nil {
		a = s.A.ZValue(t, x)
	}
	if s.B != nil {
		b = s.B.ZValue(t, x)
	}
	if s.C != nil {
		c = s.C.ZValue(t, x)
	}
	return a, b, c
}
