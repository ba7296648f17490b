// SPDX-License-Identifier: MIT

package stress

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrEmptyReport is returned by PlotResiduals when the report has no trials.
var ErrEmptyReport = errors.New("stress: report has no trials")

// residualFloor keeps exact results visible on the log-scaled axis.
const residualFloor = 1e-18

// PlotResiduals renders |det - expected| per trial on a log scale together
// with the tolerance line and saves it to path. The image format follows the
// file extension (png, svg, pdf, ...).
func PlotResiduals(rep *Report, path string) error {
	if rep == nil || len(rep.Trials) == 0 {
		return ErrEmptyReport
	}

	pts := make(plotter.XYs, len(rep.Trials))
	for i, tr := range rep.Trials {
		pts[i].X = float64(tr.Index)
		pts[i].Y = math.Max(tr.Residual, residualFloor)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Determinant residuals (%d×%d, %d trials)",
		rep.Config.Size, rep.Config.Size, len(rep.Trials))
	p.X.Label.Text = "trial"
	p.Y.Label.Text = "|det - expected|"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("stress.PlotResiduals: %w", err)
	}
	p.Add(sc, plotter.NewGrid())
	p.Legend.Add("residual", sc)

	if tol := rep.Config.Tolerance; tol > 0 {
		line := plotter.NewFunction(func(float64) float64 { return tol })
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
		p.Legend.Add("tolerance", line)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("stress.PlotResiduals(%s): %w", path, err)
	}

	return nil
}
