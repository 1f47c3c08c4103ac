// Package report draws diagnostic plots for fitted classifiers.
package report

import (
	"image/color"
	"sort"

	"github.com/YuminosukeSato/linscore/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// CalibrationPlot builds a scatter of positive-class probability against
// the raw decision score, with the points joined in score order so the
// link function (sigmoid, clipped linear) is visible.
func CalibrationPlot(scores, proba []float64, title string) (*plot.Plot, error) {
	n := len(scores)
	if n == 0 {
		return nil, errors.NewValueError("CalibrationPlot", "no points to plot")
	}
	if len(proba) != n {
		return nil, errors.NewDimensionError("CalibrationPlot", n, len(proba), 0)
	}

	pts := make(plotter.XYs, n)
	for i := range pts {
		pts[i].X = scores[i]
		pts[i].Y = proba[i]
	}
	sort.Slice(pts, func(a, b int) bool { return pts[a].X < pts[b].X })

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "decision score"
	p.Y.Label.Text = "P(positive)"
	p.Y.Min = 0
	p.Y.Max = 1

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "build scatter")
	}
	s.GlyphStyle.Radius = vg.Points(2)
	s.GlyphStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}

	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "build line")
	}
	l.LineStyle.Width = vg.Points(1)
	l.LineStyle.Color = color.RGBA{R: 255, G: 127, B: 14, A: 255}

	p.Add(s, l, plotter.NewGrid())
	p.Legend.Add("samples", s)
	p.Legend.Add("link", l)
	p.Legend.Top = false
	return p, nil
}

// SaveCalibrationPlot draws the calibration plot to path. The image format
// follows the file extension (.png, .svg, .pdf, ...).
func SaveCalibrationPlot(scores, proba []float64, title, path string) error {
	p, err := CalibrationPlot(scores, proba, title)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
