package chart

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"wbstats/internal/dataprocessing"
	"wbstats/internal/errors"
)

// Bar draws one group of bars per year with one bar per country. Missing
// values are drawn as empty bars.
func Bar(t *dataprocessing.YearTable, opts Options) (*plot.Plot, error) {
	years := t.Years()
	countries := t.Countries()
	if len(years) == 0 || len(countries) == 0 {
		return nil, errors.NewRenderError("bar chart needs at least one year and one country", nil)
	}

	p := newPlot(opts)

	w, _ := opts.size()
	slot := w * 0.8 / vg.Length(len(years))
	barWidth := slot * 0.8 / vg.Length(len(countries))
	center := float64(len(countries)-1) / 2

	for i, c := range countries {
		raw, err := t.Values(c)
		if err != nil {
			return nil, err
		}
		values := make(plotter.Values, len(raw))
		for j, v := range raw {
			values[j] = finite(v)
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, errors.NewRenderError("failed to build bars for "+c, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(float64(i)-center) * barWidth

		p.Add(bars)
		p.Legend.Add(opts.legendFor(i, c), bars)
	}

	p.NominalX(years...)
	if len(years) > 8 {
		p.X.Tick.Label.Rotation = math.Pi / 2
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	applyYRange(p, opts)

	return p, nil
}
