// Package export renders stored run artifacts to PNG files with gonum/plot.
package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/heatlab/internal/storage"
)

// Profile draws the 1D numerical field against the analytical solution.
func Profile(path string, snap *storage.FieldSnapshot) error {
	if snap.Ny != 1 {
		return fmt.Errorf("export: profile needs a 1d snapshot")
	}

	p := plot.New()
	p.Title.Text = "Temperature profile"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "u(x)"

	num := make(plotter.XYs, snap.Nx)
	ana := make(plotter.XYs, snap.Nx)
	for i := 0; i < snap.Nx; i++ {
		num[i].X, num[i].Y = snap.Xs[i], snap.U[i]
		ana[i].X, ana[i].Y = snap.Xs[i], snap.Exact[i]
	}

	numLine, err := plotter.NewLine(num)
	if err != nil {
		return fmt.Errorf("export: line plot: %w", err)
	}
	numLine.LineStyle.Width = vg.Points(2)

	anaLine, err := plotter.NewLine(ana)
	if err != nil {
		return fmt.Errorf("export: line plot: %w", err)
	}
	anaLine.LineStyle.Width = vg.Points(1)
	anaLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}

	p.Add(numLine, anaLine)
	p.Legend.Add("numerical", numLine)
	p.Legend.Add("analytical", anaLine)
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// Heatmap draws the 2D numerical field.
func Heatmap(path string, snap *storage.FieldSnapshot) error {
	if snap.Ny < 2 {
		return fmt.Errorf("export: heatmap needs a 2d snapshot")
	}

	p := plot.New()
	p.Title.Text = "Temperature field"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	pal := moreland.Kindlmann().Palette(255)
	hm := plotter.NewHeatMap(fieldGrid{snap}, pal)
	p.Add(hm)

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// fieldGrid adapts a stored snapshot to plotter.GridXYZ.
type fieldGrid struct {
	snap *storage.FieldSnapshot
}

func (g fieldGrid) Dims() (int, int)   { return g.snap.Nx, g.snap.Ny }
func (g fieldGrid) Z(c, r int) float64 { return g.snap.U[r*g.snap.Nx+c] }
func (g fieldGrid) X(c int) float64    { return g.snap.Xs[c] }
func (g fieldGrid) Y(r int) float64    { return g.snap.Xs[r] }
