package scheme

import "github.com/san-kum/heatlab/internal/pde"

// Explicit is the forward-time centered-space (FTCS) scheme. Stable only
// for r <= 0.5 (1D) or rx+ry <= 0.5 (2D); it steps regardless and lets
// divergence show up in the diagnostics.
type Explicit struct{}

func NewExplicit() *Explicit { return &Explicit{} }

func (*Explicit) Name() string { return MethodExplicit }

func (*Explicit) CostPerPoint(dim string) float64 {
	if dim == pde.Dim2D {
		return 10
	}
	return 5
}

func (*Explicit) Step(u *pde.Field, r float64) (*pde.Field, error) {
	next := pde.NewField(u.Nx, u.Ny)
	if u.Ny == 1 {
		for i := 1; i < u.Nx-1; i++ {
			next.Data[i] = u.Data[i] + r*(u.Data[i+1]-2*u.Data[i]+u.Data[i-1])
		}
		return next, nil
	}
	for j := 1; j < u.Ny-1; j++ {
		for i := 1; i < u.Nx-1; i++ {
			c := u.At(i, j)
			next.Set(i, j, c+
				r*(u.At(i+1, j)-2*c+u.At(i-1, j))+
				r*(u.At(i, j+1)-2*c+u.At(i, j-1)))
		}
	}
	return next, nil
}
