package chart

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"wbstats/internal/dataprocessing"
	"wbstats/internal/errors"
)

// Line draws one time series per country against the year. Missing values
// break the line; the last series is drawn dashed and thicker.
func Line(t *dataprocessing.YearTable, opts Options) (*plot.Plot, error) {
	labels := t.Years()
	countries := t.Countries()
	if len(labels) == 0 || len(countries) == 0 {
		return nil, errors.NewRenderError("line chart needs at least one year and one country", nil)
	}

	years := make([]float64, len(labels))
	for i, l := range labels {
		y, err := strconv.Atoi(l)
		if err != nil {
			return nil, errors.NewRenderError("year label "+l+" is not numeric", err)
		}
		years[i] = float64(y)
	}

	p := newPlot(opts)
	p.Legend.TextStyle.Font.Size = vg.Points(9)

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Vertical.Color = plotutil.Color(7)
	grid.Horizontal.Color = plotutil.Color(7)
	p.Add(grid)

	for i, c := range countries {
		values, err := t.Values(c)
		if err != nil {
			return nil, err
		}

		var first *plotter.Line
		for _, seg := range segments(years, values) {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return nil, errors.NewRenderError("failed to build line for "+c, err)
			}
			line.Color = plotutil.Color(i)
			line.Width = vg.Points(1.5)
			if i == len(countries)-1 {
				line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
				line.Width = vg.Points(2)
			}
			p.Add(line)
			if first == nil {
				first = line
			}
		}
		if first != nil {
			p.Legend.Add(opts.legendFor(i, c), first)
		}
	}

	applyYRange(p, opts)
	return p, nil
}

// segments splits a series at missing values into drawable runs
func segments(xs, ys []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i, y := range ys {
		if math.IsNaN(y) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: xs[i], Y: y})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
