// Package scheme provides the finite-difference time steppers for the
// diffusion equation.
//
// Three methods are available, each handling both 1D and 2D fields:
//
//   - [Explicit]: forward Euler (FTCS); conditionally stable, r <= 0.5 in
//     1D and rx+ry <= 0.5 in 2D. The stepper never enforces the condition;
//     watching it fail is the point of the tool.
//   - [Implicit]: backward Euler; unconditionally stable, first order in
//     time. In 2D it is a sequential x-then-y directional splitting, not a
//     simultaneous 2D solve.
//   - [CrankNicolson]: unconditionally stable, second order in time. In 2D
//     it is the Peaceman-Rachford ADI scheme with two half-steps.
//
// Steppers never modify their input field, so a failed solve leaves the
// caller's field intact. Boundary values are pinned to zero (Dirichlet).
package scheme
