package pde

import "math"

// Each session evolves a single spatial eigenmode of the diffusion
// operator with homogeneous Dirichlet boundaries:
//
//	1D: u(x, 0) = sin(3*pi*x/L)            lambda = (3*pi/L)^2
//	2D: u(x, y, 0) = sin(2*pi*x)*sin(pi*y) lambda = 5*pi^2  (unit square)
//
// The continuous solution is the initial shape scaled by exp(-alpha*lambda*t),
// which is what ExactField returns.

// DecayRate returns the eigenvalue lambda of the mode on grid g.
func DecayRate(g *Grid) float64 {
	if g.Dim == Dim2D {
		return 5 * math.Pi * math.Pi
	}
	k := 3 * math.Pi / g.Length
	return k * k
}

// InitialField evaluates the eigenmode at t = 0. Boundary entries are
// forced to exactly zero so the Dirichlet invariant holds bit-for-bit.
func InitialField(g *Grid) *Field {
	f := NewField(g.Nx, g.Ny())
	if g.Dim == Dim2D {
		for j := 1; j < g.Nx-1; j++ {
			sy := math.Sin(math.Pi * g.Xs[j])
			for i := 1; i < g.Nx-1; i++ {
				f.Set(i, j, math.Sin(2*math.Pi*g.Xs[i])*sy)
			}
		}
		return f
	}
	for i := 1; i < g.Nx-1; i++ {
		f.Data[i] = math.Sin(3 * math.Pi * g.Xs[i] / g.Length)
	}
	return f
}

// ExactField evaluates the analytical solution at time t.
func ExactField(g *Grid, alpha, t float64) *Field {
	f := InitialField(g)
	decay := math.Exp(-alpha * DecayRate(g) * t)
	for k := range f.Data {
		f.Data[k] *= decay
	}
	return f
}
