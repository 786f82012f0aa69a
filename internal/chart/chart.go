// Package chart renders year-indexed indicator tables with gonum/plot.
package chart

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"wbstats/internal/errors"
	"wbstats/internal/infrastructure"
)

// Options describes the figure. Width and Height are in inches.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	// YMin and YMax pin the value axis when set
	YMin *float64
	YMax *float64
	// Legend overrides the per-series legend entries, in column order
	Legend []string
	Width  float64
	Height float64
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 10
	}
	if h <= 0 {
		h = 7
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

func (o Options) legendFor(i int, fallback string) string {
	if i < len(o.Legend) && o.Legend[i] != "" {
		return o.Legend[i]
	}
	return fallback
}

// newPlot creates a plot with the title and axis labels applied
func newPlot(opts Options) *plot.Plot {
	p := plot.New()
	p.Title.Text = opts.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Legend.Top = true
	p.Legend.Left = true
	return p
}

// applyYRange pins the value axis; must run after every plotter is added
func applyYRange(p *plot.Plot, opts Options) {
	if opts.YMin != nil {
		p.Y.Min = *opts.YMin
	}
	if opts.YMax != nil {
		p.Y.Max = *opts.YMax
	}
}

// finite maps NaN to zero for plotters that reject non-finite values
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Renderer saves plots to disk
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a renderer
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: infrastructure.WithComponent(logger, "chart")}
}

// Save writes p to path; the image format follows the file extension
// (png, svg, pdf, jpg, eps, tif).
func (r *Renderer) Save(ctx context.Context, p *plot.Plot, opts Options, path string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "png", "svg", "pdf", "jpg", "jpeg", "eps", "tif", "tiff":
	default:
		return errors.NewRenderError(fmt.Sprintf("unsupported chart format %q", ext), nil).
			WithContext("path", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create chart directory", err)
	}

	w, h := opts.size()
	if err := p.Save(w, h, path); err != nil {
		return errors.NewRenderError("failed to save chart", err).WithContext("path", path)
	}

	r.logger.InfoContext(ctx, "chart saved",
		slog.String("path", path),
		slog.String("title", opts.Title),
		slog.Float64("width_in", opts.Width),
		slog.Float64("height_in", opts.Height))
	return nil
}
