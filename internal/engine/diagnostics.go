package engine

import (
	"math"

	"github.com/san-kum/heatlab/internal/pde"
)

// relErrorFloor guards the relative-error denominator: once the analytical
// field has decayed below this magnitude a ratio against it is noise, so
// the relative error is reported as zero instead.
const relErrorFloor = 1e-9

// Diagnostics is a full snapshot of the session's error and bookkeeping
// state, recomputed from the current fields on every call, never
// incrementally.
type Diagnostics struct {
	L2Error  float64
	MaxError float64
	// MaxRelError is a percentage and only populated for 2D sessions.
	MaxRelError     float64
	Diverged        bool
	T               float64
	Steps           int
	CostEstimate    float64
	DiffusionNumber float64
	SolverFailures  int
}

func (e *Engine) Diagnostics() Diagnostics {
	d := Diagnostics{
		Diverged:        e.diverged,
		T:               e.t,
		Steps:           e.steps,
		CostEstimate:    e.cost,
		DiffusionNumber: e.r,
		SolverFailures:  e.solverFailures,
	}
	if e.u == nil {
		return d
	}

	var sum float64
	var finite int
	for k, v := range e.u.Data {
		diff := v - e.exact.Data[k]
		if math.IsNaN(diff) || math.IsInf(diff, 0) {
			continue
		}
		sum += diff * diff
		finite++
		if a := math.Abs(diff); a > d.MaxError {
			d.MaxError = a
		}
	}
	if finite > 0 {
		d.L2Error = math.Sqrt(sum / float64(finite))
	}

	if e.params.Dim == pde.Dim2D {
		if ref := e.exact.MaxAbs(); ref > relErrorFloor {
			d.MaxRelError = 100 * d.MaxError / ref
		}
	}
	return d
}
