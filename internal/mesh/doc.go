// Package mesh generates the one-dimensional node sequences used for the
// time and space axes of a finite-difference grid.
//
// Every [Mesh] is immutable and strictly increasing, with its first and last
// nodes pinned exactly to the requested interval ends:
//
//   - [NewUniform]: evenly spaced nodes
//   - [NewExponential]: nodes clustered towards one end
//   - [NewHyperbolic]: nodes clustered around an interior anchor (e.g. a strike)
//   - [NewDoubleExponential]: two exponential meshes joined at a split point
//   - [FromPoints]: caller-supplied nodes, validated
//
// # Example
//
//	tm, _ := mesh.NewExponential(0, 5, 51, 5.0)
//	xm, _ := mesh.NewHyperbolic(0, 10, 1.0, 101, 0.01)
//
// Invalid requests fail with an error wrapping [ErrInvalidParameter].
package mesh
