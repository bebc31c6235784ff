// Package solver implements the theta finite-difference scheme for
// problems built with package pde.
//
// For each step from t_k to t_{k+1} the interior rows read
//
//	-θΔt A' V'_{j-1} + (1 - θΔt B') V'_j - θΔt C' V'_{j+1}
//	    = V_j + (1-θ)Δt (A V_{j-1} + B V_j + C V_{j+1})
//
// where A, B and C combine the PDE coefficients with the non-uniform
// derivative weights of the grid, unprimed at t_k and primed at t_{k+1}.
// Dirichlet edges pin the value. Neumann edges use a one-sided three-point
// derivative which is folded into tridiagonal form with the neighbouring
// interior row. The resulting system is solved with package tridiag.
//
// θ = 0 is explicit and only conditionally stable, θ = 1/2 is
// Crank-Nicolson and θ = 1 is fully implicit. A [Correction] runs the first
// few intervals with smaller, more implicit steps.
package solver
