package scheme

import (
	"fmt"
	"sort"

	"github.com/san-kum/heatlab/internal/pde"
	"github.com/san-kum/heatlab/internal/tridiag"
)

// Method names accepted by the registry.
const (
	MethodExplicit      = "explicit"
	MethodImplicit      = "implicit"
	MethodCrankNicolson = "crank-nicolson"
)

// Stepper advances a field by one time step at diffusion number
// r = alpha*dt/dx^2 (on a square 2D grid rx = ry = r). The input field is
// never modified.
type Stepper interface {
	Name() string
	Step(u *pde.Field, r float64) (*pde.Field, error)
	// CostPerPoint is a fixed design-level estimate of arithmetic
	// operations per grid point per step, for pedagogical cost display.
	CostPerPoint(dim string) float64
}

var steppers = map[string]func() Stepper{
	MethodExplicit:      func() Stepper { return NewExplicit() },
	MethodImplicit:      func() Stepper { return NewImplicit() },
	MethodCrankNicolson: func() Stepper { return NewCrankNicolson() },
}

// New returns the stepper registered under name.
func New(name string) (Stepper, error) {
	fn, ok := steppers[name]
	if !ok {
		return nil, fmt.Errorf("scheme: unknown method: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(steppers))
	for name := range steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// system bundles one tridiagonal solve: coefficient rows, right-hand side
// and solution, reused across rows and steps.
type system struct {
	solver        *tridiag.Solver
	a, b, c, d, x []float64
}

func (s *system) resize(n int) {
	if len(s.b) == n {
		return
	}
	s.solver = tridiag.NewSolver(n)
	s.a = make([]float64, n)
	s.b = make([]float64, n)
	s.c = make([]float64, n)
	s.d = make([]float64, n)
	s.x = make([]float64, n)
}

// constRows fills every row with the same interior coefficients.
func (s *system) constRows(sub, diag, super float64) {
	for i := range s.b {
		s.a[i], s.b[i], s.c[i] = sub, diag, super
	}
}

// clampEnds overwrites the first and last rows with the identity equation
// x = 0, which is how every implicit scheme applies the Dirichlet boundary.
func (s *system) clampEnds() {
	n := len(s.b)
	s.a[0], s.b[0], s.c[0], s.d[0] = 0, 1, 0, 0
	s.a[n-1], s.b[n-1], s.c[n-1], s.d[n-1] = 0, 1, 0, 0
}

func (s *system) solve() error {
	return s.solver.Solve(s.a, s.b, s.c, s.d, s.x)
}
