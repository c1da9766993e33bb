package analysis

import (
	"testing"

	"github.com/san-kum/heatlab/internal/pde"
)

func TestTemporalOrderBackwardEuler(t *testing.T) {
	p := pde.Params{Dim: pde.Dim1D, Method: "implicit", Nx: 81, Length: 1, Alpha: 0.01, Tmax: 1}
	points, err := TemporalOrder(p, []float64{0.1, 0.05, 0.025})
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 3 {
		t.Fatalf("got %d points", len(points))
	}
	if points[0].Order != 0 {
		t.Errorf("first rung order = %g, want 0", points[0].Order)
	}
	for _, pt := range points[1:] {
		if pt.Order < 0.8 || pt.Order > 1.2 {
			t.Errorf("dt=%g: observed order %g, want ~1", pt.H, pt.Order)
		}
	}
}

func TestTemporalOrderCrankNicolson(t *testing.T) {
	p := pde.Params{Dim: pde.Dim1D, Method: "crank-nicolson", Nx: 81, Length: 1, Alpha: 0.01, Tmax: 1}
	points, err := TemporalOrder(p, []float64{0.1, 0.05, 0.025})
	if err != nil {
		t.Fatal(err)
	}
	for _, pt := range points[1:] {
		if pt.Order < 1.7 || pt.Order > 2.3 {
			t.Errorf("dt=%g: observed order %g, want ~2", pt.H, pt.Order)
		}
	}
}

func TestSpatialOrder(t *testing.T) {
	p := pde.Params{Dim: pde.Dim1D, Method: "crank-nicolson", Nx: 0, Length: 1, Alpha: 0.01, Dt: 0.001, Tmax: 1}
	points, err := SpatialOrder(p, []int{11, 21, 41})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(points); i++ {
		if points[i].L2Error >= points[i-1].L2Error {
			t.Errorf("error not shrinking under refinement at rung %d", i)
		}
		if points[i].Order < 1.7 || points[i].Order > 2.3 {
			t.Errorf("dx=%g: observed order %g, want ~2", points[i].H, points[i].Order)
		}
	}
}

func TestLaddersRejectShortInput(t *testing.T) {
	p := pde.Params{Dim: pde.Dim1D, Method: "implicit", Nx: 41, Length: 1, Alpha: 0.01, Tmax: 1}
	if _, err := TemporalOrder(p, []float64{0.1}); err == nil {
		t.Error("single-rung temporal ladder accepted")
	}
	if _, err := SpatialOrder(p, []int{41}); err == nil {
		t.Error("single-rung spatial ladder accepted")
	}
}

func TestUnknownMethodRejected(t *testing.T) {
	p := pde.Params{Dim: pde.Dim1D, Method: "spectral", Nx: 41, Length: 1, Alpha: 0.01, Tmax: 1}
	if _, err := TemporalOrder(p, []float64{0.1, 0.05}); err == nil {
		t.Error("unknown method accepted")
	}
}
