package pde

import (
	"fmt"
	"math"
)

// Dimensionality of a session.
const (
	Dim1D = "1d"
	Dim2D = "2d"
)

// Field is a scalar field sampled on a grid. Ny == 1 for one-dimensional
// fields; two-dimensional fields are stored row-major, row j holding the
// values for one y coordinate.
type Field struct {
	Nx, Ny int
	Data   []float64
}

func NewField(nx, ny int) *Field {
	return &Field{Nx: nx, Ny: ny, Data: make([]float64, nx*ny)}
}

func (f *Field) At(i, j int) float64     { return f.Data[j*f.Nx+i] }
func (f *Field) Set(i, j int, v float64) { f.Data[j*f.Nx+i] = v }
func (f *Field) Points() int             { return f.Nx * f.Ny }

func (f *Field) Clone() *Field {
	c := &Field{Nx: f.Nx, Ny: f.Ny, Data: make([]float64, len(f.Data))}
	copy(c.Data, f.Data)
	return c
}

// MaxAbs returns the largest finite magnitude in the field.
func (f *Field) MaxAbs() float64 {
	max := 0.0
	for _, v := range f.Data {
		if a := math.Abs(v); a > max && !math.IsInf(v, 0) && !math.IsNaN(v) {
			max = a
		}
	}
	return max
}

func (f *Field) IsFinite() bool {
	for _, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Params is the full parameter set for one simulation session. Length and
// Alpha are fixed per session; Nx, Dt and the method may change between
// resets.
type Params struct {
	Dim    string
	Method string
	Nx     int
	Length float64
	Alpha  float64
	Dt     float64
	Tmax   float64
}

// Validate rejects parameter sets that must never reach the stepping loop.
// Method names are checked by the scheme registry, not here.
func (p Params) Validate() error {
	if p.Dim != Dim1D && p.Dim != Dim2D {
		return fmt.Errorf("%w: dimension must be %q or %q, got %q", ErrInvalidParams, Dim1D, Dim2D, p.Dim)
	}
	if p.Nx < 3 {
		return fmt.Errorf("%w: nx must be >= 3, got %d", ErrInvalidParams, p.Nx)
	}
	if p.Length <= 0 {
		return fmt.Errorf("%w: length must be positive, got %g", ErrInvalidParams, p.Length)
	}
	// The 2D eigenmode is defined on the unit square.
	if p.Dim == Dim2D && p.Length != 1 {
		return fmt.Errorf("%w: 2d sessions use the unit square, length must be 1", ErrInvalidParams)
	}
	if p.Alpha <= 0 {
		return fmt.Errorf("%w: alpha must be positive, got %g", ErrInvalidParams, p.Alpha)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidParams, p.Dt)
	}
	if p.Tmax <= 0 {
		return fmt.Errorf("%w: tmax must be positive, got %g", ErrInvalidParams, p.Tmax)
	}
	return nil
}

// Points returns the total grid point count, N for 1D and N*N for 2D.
func (p Params) Points() int {
	if p.Dim == Dim2D {
		return p.Nx * p.Nx
	}
	return p.Nx
}
