package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"wbstats/internal/errors"
)

// Slice is one wedge of a pie chart
type Slice struct {
	Label string
	Value float64
}

// PieChart is a plot.Plotter drawing wedges counterclockwise from twelve
// o'clock, each labelled with its share of the total.
type PieChart struct {
	Slices []Slice
	Colors []color.Color
	// Radius is the fraction of the smaller canvas side used as radius
	Radius float64
	// PercentFormat formats the share label, e.g. "%.1f%%"
	PercentFormat string
	total         float64
}

// NewPieChart validates the slices and assigns palette colors
func NewPieChart(slices []Slice) (*PieChart, error) {
	total := 0.0
	for _, s := range slices {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) || s.Value < 0 {
			return nil, errors.NewRenderError(fmt.Sprintf("pie value for %s must be finite and non-negative, got %v", s.Label, s.Value), nil)
		}
		total += s.Value
	}
	if total == 0 {
		return nil, errors.NewRenderError("pie chart has nothing to plot", nil)
	}

	colors := make([]color.Color, len(slices))
	for i := range slices {
		colors[i] = plotutil.Color(i)
	}
	return &PieChart{
		Slices:        slices,
		Colors:        colors,
		Radius:        0.4,
		PercentFormat: "%.1f%%",
		total:         total,
	}, nil
}

// Share returns slice i's fraction of the total
func (pc *PieChart) Share(i int) float64 {
	return pc.Slices[i].Value / pc.total
}

// Plot implements plot.Plotter
func (pc *PieChart) Plot(c draw.Canvas, plt *plot.Plot) {
	center := c.Center()
	radius := vg.Length(pc.Radius) * minLength(c.Max.X-c.Min.X, c.Max.Y-c.Min.Y)

	sty := plt.Legend.TextStyle
	sty.Font.Size = vg.Points(12)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter

	start := math.Pi / 2
	for i, s := range pc.Slices {
		if s.Value == 0 {
			continue
		}
		sweep := 2 * math.Pi * pc.Share(i)

		var wedge vg.Path
		wedge.Move(center)
		wedge.Arc(center, radius, start, sweep)
		wedge.Close()

		c.SetColor(pc.Colors[i])
		c.Fill(wedge)
		c.SetColor(color.White)
		c.SetLineWidth(vg.Points(1))
		c.Stroke(wedge)

		mid := start + sweep/2
		c.FillText(sty, polar(center, radius*0.6, mid), fmt.Sprintf(pc.PercentFormat, 100*pc.Share(i)))
		c.FillText(sty, polar(center, radius*1.15, mid), s.Label)

		start += sweep
	}
}

// Thumbnailers returns one legend swatch per slice
func (pc *PieChart) Thumbnailers() []plot.Thumbnailer {
	out := make([]plot.Thumbnailer, len(pc.Slices))
	for i := range pc.Slices {
		out[i] = swatch{color: pc.Colors[i]}
	}
	return out
}

type swatch struct {
	color color.Color
}

// Thumbnail implements plot.Thumbnailer
func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, c.ClipPolygonY(pts))
}

func polar(center vg.Point, r vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + r*vg.Length(math.Cos(angle)),
		Y: center.Y + r*vg.Length(math.Sin(angle)),
	}
}

func minLength(a, b vg.Length) vg.Length {
	if a < b {
		return a
	}
	return b
}

// Pie draws one wedge per slice with a legend
func Pie(slices []Slice, opts Options) (*plot.Plot, error) {
	pc, err := NewPieChart(slices)
	if err != nil {
		return nil, err
	}

	p := newPlot(opts)
	p.HideAxes()
	p.Add(pc)

	thumbs := pc.Thumbnailers()
	for i, s := range slices {
		p.Legend.Add(opts.legendFor(i, s.Label), thumbs[i])
	}
	p.Legend.Left = false

	return p, nil
}
