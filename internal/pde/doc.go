// Package pde provides core primitives for finite-difference diffusion
// simulations.
//
// The package defines the fundamental types shared by the solver packages:
//
//   - [Grid]: uniform spatial discretization of the domain
//   - [Field]: scalar field sampled on a grid (1D slice or 2D matrix)
//   - [Params]: a full simulation parameter set with validation
//
// It also generates the session eigenmode: the initial condition and the
// closed-form analytical solution used as ground truth for error
// measurement. The analytical field is exact only for this specific mode
// and its homogeneous Dirichlet boundaries; it is not a general solver.
//
// # Example
//
//	g, _ := pde.NewGrid(pde.Dim1D, 1.0, 41)
//	u := pde.InitialField(g)
//	exact := pde.ExactField(g, 0.01, 0.5)
package pde
