// Package curves renders the footprints of uncertainty of the input sets.
package curves

import (
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"example.com/fanctl/core/fls"
)

const (
	DefaultSamples = 201

	width  = 8 * vg.Inch
	height = 4 * vg.Inch
)

func Plot(sys *fls.System, samples int) (*plot.Plot, error) {
	cs, err := sys.Curves(samples)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Input fuzzy sets"
	p.X.Label.Text = "Temperature"
	p.X.Label.Padding = vg.Points(5)
	p.Y.Label.Text = "Membership degree"
	p.Y.Label.Padding = vg.Points(5)
	p.Y.Min = 0
	p.Y.Max = 1.05
	p.Legend.Top = true

	p.Add(plotter.NewGrid())

	for i, c := range cs {
		upper := make(plotter.XYs, len(c.Points))
		primary := make(plotter.XYs, len(c.Points))
		lower := make(plotter.XYs, len(c.Points))
		for j, pt := range c.Points {
			upper[j] = plotter.XY{X: pt.X, Y: pt.Upper}
			primary[j] = plotter.XY{X: pt.X, Y: pt.Primary}
			lower[j] = plotter.XY{X: pt.X, Y: pt.Lower}
		}

		lu, err := plotter.NewLine(upper)
		if err != nil {
			return nil, err
		}
		lu.LineStyle.Color = plotutil.Color(i)

		lp, err := plotter.NewLine(primary)
		if err != nil {
			return nil, err
		}
		lp.LineStyle.Color = plotutil.Color(i)
		lp.LineStyle.Width = vg.Points(0.5)
		lp.LineStyle.Dashes = plotutil.Dashes(2)

		ll, err := plotter.NewLine(lower)
		if err != nil {
			return nil, err
		}
		ll.LineStyle.Color = plotutil.Color(i)
		ll.LineStyle.Dashes = plotutil.Dashes(1)

		p.Add(lu, lp, ll)
		p.Legend.Add(c.Set+" upper", lu)
		p.Legend.Add(c.Set+" lower", ll)
	}
	return p, nil
}

// Save writes the plot to fn. The format follows the file extension.
func Save(sys *fls.System, samples int, fn string) error {
	p, err := Plot(sys, samples)
	if err != nil {
		return err
	}
	return p.Save(width, height, fn)
}

// Write renders the plot in the given format ("svg", "png", "pdf", ...).
func Write(w io.Writer, sys *fls.System, samples int, format string) error {
	p, err := Plot(sys, samples)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
