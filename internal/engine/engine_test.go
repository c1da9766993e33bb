package engine_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heatlab/internal/engine"
	"github.com/san-kum/heatlab/internal/pde"
)

func stableParams() pde.Params {
	return pde.Params{
		Dim: pde.Dim1D, Method: "explicit", Nx: 41,
		Length: 1, Alpha: 0.01, Dt: 0.001, Tmax: 1,
	}
}

func newSession(p pde.Params) *engine.Engine {
	eng := engine.New()
	ExpectWithOffset(1, eng.Configure(p)).To(Succeed())
	ExpectWithOffset(1, eng.Reset()).To(Succeed())
	return eng
}

var _ = Describe("Engine", func() {
	Describe("Configure", func() {
		It("rejects invalid parameters", func() {
			p := stableParams()
			p.Nx = 2
			Expect(engine.New().Configure(p)).To(MatchError(pde.ErrInvalidParams))
		})

		It("rejects unknown methods", func() {
			p := stableParams()
			p.Method = "spectral"
			Expect(engine.New().Configure(p)).To(HaveOccurred())
		})

		It("applies a dt change to a live session immediately", func() {
			eng := newSession(stableParams())
			before := eng.Diagnostics().DiffusionNumber

			p := eng.Params()
			p.Dt *= 2
			Expect(eng.Configure(p)).To(Succeed())
			Expect(eng.Diagnostics().DiffusionNumber).To(BeNumerically("~", 2*before, 1e-12))
			Expect(eng.Field()).NotTo(BeNil(), "grid unchanged, session must survive")
		})

		It("invalidates the session when the grid shape changes", func() {
			eng := newSession(stableParams())
			p := eng.Params()
			p.Nx = 81
			Expect(eng.Configure(p)).To(Succeed())
			Expect(eng.Step()).To(MatchError(engine.ErrNotConfigured))
			Expect(eng.Reset()).To(Succeed())
			Expect(eng.Grid().Nx).To(Equal(81))
		})
	})

	Describe("Reset", func() {
		It("reproduces the initial state bit for bit", func() {
			eng := newSession(stableParams())
			first := eng.Field().Clone()

			for i := 0; i < 10; i++ {
				Expect(eng.Step()).To(Succeed())
			}
			Expect(eng.Reset()).To(Succeed())

			Expect(eng.Field().Data).To(Equal(first.Data))
			d := eng.Diagnostics()
			Expect(d.Steps).To(BeZero())
			Expect(d.T).To(BeZero())
			Expect(d.CostEstimate).To(BeZero())
			Expect(d.Diverged).To(BeFalse())
		})

		It("starts with the numerical field equal to the analytical one", func() {
			eng := newSession(stableParams())
			Expect(eng.Field().Data).To(Equal(eng.Exact().Data))
			d := eng.Diagnostics()
			Expect(d.L2Error).To(BeZero())
			Expect(d.MaxError).To(BeZero())
		})

		It("fails before Configure", func() {
			Expect(engine.New().Reset()).To(MatchError(engine.ErrNotConfigured))
		})
	})

	Describe("Step", func() {
		It("advances time and the cost estimate together", func() {
			eng := newSession(stableParams())
			prevCost := 0.0
			for i := 1; i <= 5; i++ {
				Expect(eng.Step()).To(Succeed())
				d := eng.Diagnostics()
				Expect(d.Steps).To(Equal(i))
				Expect(d.T).To(BeNumerically("~", float64(i)*0.001, 1e-12))
				Expect(d.CostEstimate).To(BeNumerically(">", prevCost))
				prevCost = d.CostEstimate
			}
		})

		It("charges the explicit 1d rate of 5 ops per point", func() {
			eng := newSession(stableParams())
			Expect(eng.Step()).To(Succeed())
			Expect(eng.Diagnostics().CostEstimate).To(Equal(5.0 * 41))
		})

		It("charges 2d sessions per grid point, not per axis point", func() {
			p := stableParams()
			p.Dim = pde.Dim2D
			p.Nx = 21
			eng := newSession(p)
			Expect(eng.Step()).To(Succeed())
			Expect(eng.Diagnostics().CostEstimate).To(Equal(10.0 * 21 * 21))
		})

		It("refuses to run past Tmax", func() {
			p := stableParams()
			p.Tmax = 0.003
			eng := newSession(p)
			for !eng.Completed() {
				Expect(eng.Step()).To(Succeed())
			}
			Expect(eng.Diagnostics().Steps).To(Equal(3))
			Expect(eng.Step()).To(MatchError(engine.ErrCompleted))
		})
	})

	Describe("stability", func() {
		It("stays accurate over a long stable run", func() {
			eng := newSession(stableParams()) // r = 0.016
			for i := 0; i < 1000; i++ {
				Expect(eng.Step()).To(Succeed())
			}
			d := eng.Diagnostics()
			Expect(d.Diverged).To(BeFalse())
			Expect(d.MaxError).To(BeNumerically("<", 5e-3))
		})

		It("flags explicit divergence past the stability bound", func() {
			p := stableParams()
			p.Dt = 0.1 // r = 1.6
			p.Tmax = 20
			eng := newSession(p)

			for i := 0; i < 100 && !eng.Diagnostics().Diverged; i++ {
				Expect(eng.Step()).To(Succeed())
			}
			Expect(eng.Diagnostics().Diverged).To(BeTrue())
		})

		It("keeps the diverged flag sticky", func() {
			p := stableParams()
			p.Dt = 0.1
			p.Tmax = 20
			eng := newSession(p)
			for i := 0; i < 100 && !eng.Diagnostics().Diverged; i++ {
				Expect(eng.Step()).To(Succeed())
			}
			Expect(eng.Diagnostics().Diverged).To(BeTrue())

			for i := 0; i < 10 && !eng.Completed(); i++ {
				Expect(eng.Step()).To(Succeed())
			}
			Expect(eng.Diagnostics().Diverged).To(BeTrue())

			Expect(eng.Reset()).To(Succeed())
			Expect(eng.Diagnostics().Diverged).To(BeFalse())
		})

		It("survives the same diffusion number implicitly", func() {
			p := stableParams()
			p.Method = "implicit"
			p.Dt = 0.1
			p.Tmax = 20
			eng := newSession(p)
			for i := 0; i < 200 && !eng.Completed(); i++ {
				Expect(eng.Step()).To(Succeed())
			}
			Expect(eng.Diagnostics().Diverged).To(BeFalse())
		})
	})

	Describe("Diagnostics", func() {
		It("only reports a relative error for 2d sessions", func() {
			eng := newSession(stableParams())
			Expect(eng.Step()).To(Succeed())
			Expect(eng.Diagnostics().MaxRelError).To(BeZero())

			p := stableParams()
			p.Dim = pde.Dim2D
			p.Nx = 21
			p.Dt = 0.01
			eng2 := newSession(p)
			for i := 0; i < 10; i++ {
				Expect(eng2.Step()).To(Succeed())
			}
			d := eng2.Diagnostics()
			Expect(d.MaxRelError).To(BeNumerically(">", 0))
			Expect(d.MaxRelError).To(BeNumerically("<", 100))
		})

		It("reports zero relative error once the analytical field has decayed away", func() {
			p := stableParams()
			p.Dim = pde.Dim2D
			p.Method = "implicit"
			p.Nx = 21
			p.Alpha = 1
			p.Dt = 0.1
			p.Tmax = 10
			eng := newSession(p)

			// exp(-alpha*5*pi^2*t) is below any floor long before t = 2.
			for i := 0; i < 20; i++ {
				Expect(eng.Step()).To(Succeed())
			}
			Expect(eng.Exact().MaxAbs()).To(BeNumerically("<", 1e-9))
			Expect(eng.Diagnostics().MaxRelError).To(BeZero())
			Expect(eng.Diagnostics().Diverged).To(BeFalse())
		})

		It("tracks the diffusion number from the grid spacing", func() {
			eng := newSession(stableParams())
			// r = 0.01 * 0.001 / 0.025^2
			Expect(eng.Diagnostics().DiffusionNumber).To(BeNumerically("~", 0.016, 1e-12))
		})
	})

	Describe("IsSolverFailure", func() {
		It("only matches degenerate-pivot fallbacks", func() {
			Expect(engine.IsSolverFailure(engine.ErrCompleted)).To(BeFalse())
			Expect(engine.IsSolverFailure(errors.New("other"))).To(BeFalse())
			Expect(engine.IsSolverFailure(nil)).To(BeFalse())
		})
	})
})
