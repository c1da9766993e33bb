package pde

import "fmt"

// Grid is a uniform discretization of [0, L] (1D) or of the square
// [0, L] x [0, L] (2D). Spacing is L/(N-1) on both axes; point i sits at
// i*Dx. A grid is immutable once built.
type Grid struct {
	Dim    string
	Nx     int
	Length float64
	Dx     float64
	Xs     []float64
}

func NewGrid(dim string, length float64, n int) (*Grid, error) {
	if dim != Dim1D && dim != Dim2D {
		return nil, fmt.Errorf("%w: unknown dimension %q", ErrInvalidParams, dim)
	}
	if n < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrGridTooSmall, n)
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: length must be positive, got %g", ErrInvalidParams, length)
	}
	dx := length / float64(n-1)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i) * dx
	}
	return &Grid{Dim: dim, Nx: n, Length: length, Dx: dx, Xs: xs}, nil
}

// Ny returns the point count along y: Nx for a square 2D grid, 1 otherwise.
func (g *Grid) Ny() int {
	if g.Dim == Dim2D {
		return g.Nx
	}
	return 1
}

func (g *Grid) Points() int { return g.Nx * g.Ny() }
