package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/heatlab/internal/pde"
	"github.com/san-kum/heatlab/internal/scheme"
	"github.com/san-kum/heatlab/internal/tridiag"
)

// DivergenceThreshold is the field magnitude beyond which a session is
// flagged as diverged. The check scans the whole field (global-maximum
// policy) and also trips on any non-finite value.
const DivergenceThreshold = 10.0

// timeSlack absorbs floating-point drift in the accumulated session time
// when comparing against Tmax.
const timeSlack = 1e-12

type Engine struct {
	params  pde.Params
	stepper scheme.Stepper

	grid     *pde.Grid
	u, exact *pde.Field

	r              float64
	t              float64
	steps          int
	cost           float64
	diverged       bool
	solverFailures int
}

func New() *Engine { return &Engine{} }

// Configure validates and installs a parameter set. Changing Nx, Length or
// the dimension invalidates the current session until the next Reset;
// changing only Dt or the method takes effect immediately, with the
// diffusion number recomputed.
func (e *Engine) Configure(p pde.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	st, err := scheme.New(p.Method)
	if err != nil {
		return err
	}
	sameGrid := e.grid != nil && e.grid.Dim == p.Dim && e.grid.Nx == p.Nx && e.grid.Length == p.Length
	e.params = p
	e.stepper = st
	if sameGrid {
		e.r = p.Alpha * p.Dt / (e.grid.Dx * e.grid.Dx)
	} else {
		e.grid, e.u, e.exact = nil, nil, nil
	}
	return nil
}

// Reset rebuilds the grid and both fields for the current parameters and
// zeroes every counter. The session is assembled completely before it is
// installed, so no observer ever sees a grid paired with fields of another
// size.
func (e *Engine) Reset() error {
	if e.stepper == nil {
		return ErrNotConfigured
	}
	g, err := pde.NewGrid(e.params.Dim, e.params.Length, e.params.Nx)
	if err != nil {
		return err
	}
	u := pde.InitialField(g)
	exact := pde.ExactField(g, e.params.Alpha, 0)

	e.grid, e.u, e.exact = g, u, exact
	e.r = e.params.Alpha * e.params.Dt / (g.Dx * g.Dx)
	e.t, e.steps, e.cost = 0, 0, 0
	e.diverged = false
	e.solverFailures = 0
	return nil
}

// Step advances the session by one time step. A degenerate solver pivot is
// reported but not fatal: the field keeps its previous values for that
// step, time still advances and the session keeps running.
func (e *Engine) Step() error {
	if e.u == nil {
		return ErrNotConfigured
	}
	if e.Completed() {
		return ErrCompleted
	}

	next, stepErr := e.stepper.Step(e.u, e.r)
	if stepErr == nil {
		e.u = next
	} else {
		e.solverFailures++
	}

	e.steps++
	e.t += e.params.Dt
	e.exact = pde.ExactField(e.grid, e.params.Alpha, e.t)
	e.cost += e.stepper.CostPerPoint(e.params.Dim) * float64(e.grid.Points())

	if !e.diverged {
		for _, v := range e.u.Data {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > DivergenceThreshold {
				e.diverged = true
				break
			}
		}
	}

	if stepErr != nil {
		return fmt.Errorf("engine: step %d: %w", e.steps, stepErr)
	}
	return nil
}

// Completed reports whether the session reached Tmax.
func (e *Engine) Completed() bool {
	return e.u != nil && e.t+timeSlack >= e.params.Tmax
}

// Running reports whether at least one step has been taken since Reset.
func (e *Engine) Running() bool { return e.steps > 0 }

func (e *Engine) Params() pde.Params { return e.params }
func (e *Engine) Grid() *pde.Grid    { return e.grid }

// Field returns the live numerical field. The caller shares the engine's
// single-threaded ownership; clone before retaining across steps.
func (e *Engine) Field() *pde.Field { return e.u }

// Exact returns the analytical field at the current session time.
func (e *Engine) Exact() *pde.Field { return e.exact }

// IsSolverFailure reports whether err from Step was a recovered
// degenerate-pivot fallback, which a driver may log and step past.
func IsSolverFailure(err error) bool {
	return errors.Is(err, tridiag.ErrDegeneratePivot)
}
