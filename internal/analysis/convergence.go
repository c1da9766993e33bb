// Package analysis provides convergence studies for the diffusion schemes.
//
// A study sweeps one discretization knob while holding the rest fixed and
// records the error at each rung, from which the observed order of accuracy
// follows as the log ratio of successive errors. The numbers to expect:
// backward Euler is first order in time, Crank-Nicolson second order, and
// all schemes share the second-order spatial discretization.
package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/heatlab/internal/pde"
	"github.com/san-kum/heatlab/internal/scheme"
)

// Point is one rung of a convergence ladder. Order is the observed order
// of accuracy against the previous rung, zero for the first.
type Point struct {
	H       float64 // step size swept: dt or dx
	L2Error float64
	Order   float64
}

// TemporalOrder runs the method at each dt and measures the error against
// a reference run at a much finer step on the same grid, so the shared
// spatial error cancels and the temporal order shows cleanly.
func TemporalOrder(p pde.Params, dts []float64) ([]Point, error) {
	if len(dts) < 2 {
		return nil, fmt.Errorf("analysis: need at least two step sizes")
	}
	st, err := scheme.New(p.Method)
	if err != nil {
		return nil, err
	}
	g, err := pde.NewGrid(p.Dim, p.Length, p.Nx)
	if err != nil {
		return nil, err
	}

	finest := dts[0]
	for _, dt := range dts {
		if dt < finest {
			finest = dt
		}
	}
	ref, err := integrate(st, g, p, finest/8)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(dts))
	for _, dt := range dts {
		u, err := integrate(st, g, p, dt)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{H: dt, L2Error: l2Diff(u, ref)})
	}
	fillOrders(points)
	return points, nil
}

// SpatialOrder refines the grid at a fixed small dt and measures the error
// against the analytical solution. Run it with a fine enough dt that the
// spatial error dominates, otherwise the ladder flattens out.
func SpatialOrder(p pde.Params, sizes []int) ([]Point, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("analysis: need at least two grid sizes")
	}
	st, err := scheme.New(p.Method)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(sizes))
	for _, n := range sizes {
		g, err := pde.NewGrid(p.Dim, p.Length, n)
		if err != nil {
			return nil, err
		}
		u, err := integrate(st, g, p, p.Dt)
		if err != nil {
			return nil, err
		}
		exact := pde.ExactField(g, p.Alpha, p.Tmax)
		points = append(points, Point{H: g.Dx, L2Error: l2Diff(u, exact)})
	}
	fillOrders(points)
	return points, nil
}

// integrate advances the initial eigenmode to Tmax with a whole number of
// steps of size near dt.
func integrate(st scheme.Stepper, g *pde.Grid, p pde.Params, dt float64) (*pde.Field, error) {
	steps := int(math.Round(p.Tmax / dt))
	if steps < 1 {
		steps = 1
	}
	r := p.Alpha * (p.Tmax / float64(steps)) / (g.Dx * g.Dx)

	u := pde.InitialField(g)
	for k := 0; k < steps; k++ {
		next, err := st.Step(u, r)
		if err != nil {
			return nil, fmt.Errorf("analysis: step %d: %w", k, err)
		}
		u = next
	}
	return u, nil
}

func l2Diff(u, ref *pde.Field) float64 {
	var sum float64
	for k := range u.Data {
		d := u.Data[k] - ref.Data[k]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(u.Data)))
}

func fillOrders(points []Point) {
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		if cur.L2Error <= 0 || prev.L2Error <= 0 || cur.H == prev.H {
			continue
		}
		points[i].Order = math.Log(prev.L2Error/cur.L2Error) / math.Log(prev.H/cur.H)
	}
}
