// Package pde defines the problem and result types of the finite-difference
// engine for parabolic convection-diffusion-reaction equations
//
//	dV/dt = a(t,x) V_xx + b(t,x) V_x + c(t,x) V
//
// on a [grid.Grid]:
//
//   - [Coefficients]: supplies (a, b, c) at any (t, x)
//   - [BoundaryCondition]: [Dirichlet] or [Neumann] constraint at a grid edge
//   - [InitialCondition]: V at the first time layer
//   - [DataBundle]: a validated, solvable problem
//   - [Results]: the computed value field with node lookup and interpolation
//   - [Solver]: anything that turns a bundle into results
//
// # Example
//
//	g, _ := grid.New(timeMesh, spaceMesh)
//	coeffs := pde.ConstantCoefficients{A: 1}
//	lower := pde.NewConstantDirichlet(g.SpaceAt(0), 0)
//	upper := pde.NewConstantDirichlet(g.SpaceAt(g.NumSpaceNodes()-1), 0)
//	b, _ := pde.NewDataBundle(coeffs, initial, lower, upper, g)
//	res, _ := solver.Solve(b)
//
// # Thread Safety
//
// Coefficients, boundary conditions and initial conditions must be pure: the
// solver may evaluate them in any order, including at sub-step times between
// grid nodes. Bundles and results are immutable and may be shared between
// goroutines.
package pde
