package scheme

import (
	"math"
	"testing"

	"github.com/san-kum/heatlab/internal/pde"
)

func grid1D(t *testing.T, n int) *pde.Grid {
	t.Helper()
	g, err := pde.NewGrid(pde.Dim1D, 1.0, n)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func grid2D(t *testing.T, n int) *pde.Grid {
	t.Helper()
	g, err := pde.NewGrid(pde.Dim2D, 1.0, n)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func advance(t *testing.T, st Stepper, u *pde.Field, r float64, steps int) *pde.Field {
	t.Helper()
	for k := 0; k < steps; k++ {
		next, err := st.Step(u, r)
		if err != nil {
			t.Fatalf("step %d: %v", k, err)
		}
		u = next
	}
	return u
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		st, err := New(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if st.Name() != name {
			t.Errorf("Name() = %s, want %s", st.Name(), name)
		}
	}
	if _, err := New("spectral"); err == nil {
		t.Error("unknown method accepted")
	}
}

func TestCostPerPoint(t *testing.T) {
	costs := map[string][2]float64{
		MethodExplicit:      {5, 10},
		MethodImplicit:      {8, 16},
		MethodCrankNicolson: {12, 24},
	}
	for name, want := range costs {
		st, _ := New(name)
		if got := st.CostPerPoint(pde.Dim1D); got != want[0] {
			t.Errorf("%s 1d cost = %g, want %g", name, got, want[0])
		}
		if got := st.CostPerPoint(pde.Dim2D); got != want[1] {
			t.Errorf("%s 2d cost = %g, want %g", name, got, want[1])
		}
	}
}

func TestBoundariesStayZero(t *testing.T) {
	for _, name := range Names() {
		st, _ := New(name)

		g := grid1D(t, 41)
		u := advance(t, st, pde.InitialField(g), 0.1, 50)
		if u.Data[0] != 0 || u.Data[40] != 0 {
			t.Errorf("%s 1d: boundaries %g, %g", name, u.Data[0], u.Data[40])
		}

		g2 := grid2D(t, 21)
		u2 := advance(t, st, pde.InitialField(g2), 0.1, 20)
		for i := 0; i < 21; i++ {
			if u2.At(i, 0) != 0 || u2.At(i, 20) != 0 || u2.At(0, i) != 0 || u2.At(20, i) != 0 {
				t.Fatalf("%s 2d: boundary nonzero at edge index %d", name, i)
			}
		}
	}
}

func TestStepDoesNotModifyInput(t *testing.T) {
	g := grid1D(t, 41)
	u := pde.InitialField(g)
	snapshot := u.Clone()
	for _, name := range Names() {
		st, _ := New(name)
		if _, err := st.Step(u, 0.2); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for i := range u.Data {
			if u.Data[i] != snapshot.Data[i] {
				t.Fatalf("%s modified its input at %d", name, i)
			}
		}
	}
}

// In the stable regime every method should track the analytical decay of
// the eigenmode closely.
func TestStableDecayTracksExact(t *testing.T) {
	g := grid1D(t, 41)
	alpha, dt := 0.01, 0.001
	r := alpha * dt / (g.Dx * g.Dx) // 0.016
	steps := 1000

	for _, name := range Names() {
		st, _ := New(name)
		u := advance(t, st, pde.InitialField(g), r, steps)
		exact := pde.ExactField(g, alpha, float64(steps)*dt)

		var maxErr float64
		for i := range u.Data {
			if e := math.Abs(u.Data[i] - exact.Data[i]); e > maxErr {
				maxErr = e
			}
		}
		if maxErr > 5e-3 {
			t.Errorf("%s: max error %g after %d steps", name, maxErr, steps)
		}
	}
}

// Crank-Nicolson is second order in time, backward Euler first order, so at
// a coarse step the trapezoidal error must come in lower.
func TestAccuracyOrdering(t *testing.T) {
	g := grid1D(t, 81)
	alpha, dt := 0.01, 0.05
	r := alpha * dt / (g.Dx * g.Dx)
	steps := 20

	l2 := func(name string) float64 {
		st, _ := New(name)
		u := advance(t, st, pde.InitialField(g), r, steps)
		exact := pde.ExactField(g, alpha, float64(steps)*dt)
		var sum float64
		for i := range u.Data {
			d := u.Data[i] - exact.Data[i]
			sum += d * d
		}
		return math.Sqrt(sum / float64(len(u.Data)))
	}

	cnErr := l2(MethodCrankNicolson)
	implErr := l2(MethodImplicit)
	if cnErr >= implErr {
		t.Errorf("crank-nicolson l2 %g not below implicit l2 %g", cnErr, implErr)
	}
}

// Past the stability bound the explicit scheme must blow up; round-off
// excites the highest grid mode, which is amplified every step.
func TestExplicitInstability(t *testing.T) {
	g := grid1D(t, 41)
	r := 1.6
	st := NewExplicit()

	u := pde.InitialField(g)
	blewUp := false
	for k := 0; k < 100; k++ {
		next, err := st.Step(u, r)
		if err != nil {
			t.Fatalf("step %d: %v", k, err)
		}
		u = next
		if !u.IsFinite() || u.MaxAbs() > 10 {
			blewUp = true
			break
		}
	}
	if !blewUp {
		t.Errorf("field bounded after 100 steps at r = %g", r)
	}
}

// The implicit schemes must stay bounded at the same diffusion number that
// destroys the explicit one.
func TestImplicitUnconditionalStability(t *testing.T) {
	g := grid1D(t, 41)
	r := 1.6
	for _, name := range []string{MethodImplicit, MethodCrankNicolson} {
		st, _ := New(name)
		u := advance(t, st, pde.InitialField(g), r, 200)
		if !u.IsFinite() {
			t.Fatalf("%s: non-finite field", name)
		}
		if u.MaxAbs() > 1 {
			t.Errorf("%s: amplitude grew to %g", name, u.MaxAbs())
		}
	}
}

func TestStableDecay2D(t *testing.T) {
	g := grid2D(t, 21)
	alpha, dt := 0.01, 0.01
	r := alpha * dt / (g.Dx * g.Dx) // 0.04 per axis
	steps := 200

	for _, name := range Names() {
		st, _ := New(name)
		u := advance(t, st, pde.InitialField(g), r, steps)
		exact := pde.ExactField(g, alpha, float64(steps)*dt)

		var maxErr float64
		for k := range u.Data {
			if e := math.Abs(u.Data[k] - exact.Data[k]); e > maxErr {
				maxErr = e
			}
		}
		// The coarse 21x21 grid and splitting error dominate here.
		if maxErr > 2e-2 {
			t.Errorf("%s: 2d max error %g after %d steps", name, maxErr, steps)
		}
	}
}
