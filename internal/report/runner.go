package report

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"gonum.org/v1/plot"

	"wbstats/internal/chart"
	"wbstats/internal/config"
	"wbstats/internal/dataprocessing"
	"wbstats/internal/errors"
	"wbstats/internal/exporter"
	"wbstats/internal/infrastructure"
)

// MedianPlaceholder in a chart title is replaced by the median of the
// per-country medians of the charted view
const MedianPlaceholder = "{median}"

// RunOptions adjusts a run from the command line
type RunOptions struct {
	// ChartDir overrides the configured charts directory
	ChartDir string
	// Formats lists export formats (csv, xlsx); empty disables export
	Formats []string
	// NoChart skips rendering
	NoChart bool
}

// Result is what one report run produced
type Result struct {
	Report    string
	Indicator string
	Views     *dataprocessing.Views
	// View is the table the report summarised and charted
	View      *dataprocessing.YearTable
	Stats     []dataprocessing.CountryStats
	ChartPath string
	Exports   []string
	Stages    []StageResult
	Duration  time.Duration
}

// Runner executes reports one after the other
type Runner struct {
	paths    *config.Paths
	loader   *dataprocessing.Loader
	renderer *chart.Renderer
	exporter *exporter.ViewExporter
	printer  *Printer
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewRunner wires the loader, renderer and exporter around paths. A nil
// tracer disables tracing and a nil printer writes to stdout.
func NewRunner(paths *config.Paths, tracer trace.Tracer, printer *Printer, logger *slog.Logger) *Runner {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	if printer == nil {
		printer = NewPrinter(nil)
	}
	return &Runner{
		paths:    paths,
		loader:   dataprocessing.NewLoader(logger, dataprocessing.DefaultSchema()),
		renderer: chart.NewRenderer(logger),
		exporter: exporter.NewViewExporter(paths, logger),
		printer:  printer,
		tracer:   tracer,
		logger:   infrastructure.WithComponent(logger, "runner"),
	}
}

// LoaderOptions maps a report's source settings onto loader options
func LoaderOptions(rc *config.ReportConfig) dataprocessing.Options {
	return dataprocessing.Options{
		SkipRows:  rc.SkipRows,
		Stride:    rc.Stride,
		FirstYear: rc.FirstYear,
		LastYear:  rc.LastYear,
		Countries: rc.Countries,
	}
}

// RunAll runs reports in order and stops at the first failure
func (r *Runner) RunAll(ctx context.Context, reports []config.ReportConfig, opts RunOptions) ([]*Result, error) {
	results := make([]*Result, 0, len(reports))
	for i := range reports {
		res, err := r.Run(ctx, &reports[i], opts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Run reads, cleans, aggregates, plots and optionally exports one report
func (r *Runner) Run(ctx context.Context, rc *config.ReportConfig, opts RunOptions) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, "report."+rc.Name,
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	start := time.Now()
	res := &Result{Report: rc.Name}
	logger := infrastructure.WithReport(r.logger, rc.Name)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"report.source": rc.Source,
		"report.view":   rc.View,
		"chart.kind":    rc.Chart.Kind,
	})
	logger.InfoContext(ctx, "report started",
		slog.String("source", rc.Source),
		slog.String("view", rc.View),
		slog.String("chart", rc.Chart.Kind))

	err := r.runStage(ctx, res, StageRead, func(ctx context.Context) error {
		views, err := r.loader.ReadFile(ctx, r.paths.ResolveSource(rc.Source), LoaderOptions(rc))
		if err != nil {
			return err
		}
		res.Views = views
		res.Indicator = views.Indicator
		return nil
	})
	if err != nil {
		return res, err
	}

	err = r.runStage(ctx, res, StageClean, func(ctx context.Context) error {
		view, err := SelectView(res.Views, rc.View)
		if err != nil {
			return err
		}
		if rc.Print.Views {
			r.printer.Views(res.Views.RowComplete, res.Views.ColumnComplete)
		}
		if len(rc.Chart.Countries) > 0 {
			if view, err = NarrowView(view, rc.Chart.Countries); err != nil {
				return err
			}
		}
		res.View = view
		return nil
	})
	if err != nil {
		return res, err
	}

	err = r.runStage(ctx, res, StageAggregate, func(ctx context.Context) error {
		res.Stats = dataprocessing.Describe(res.View)
		switch rc.Print.Summary {
		case config.SummaryDescribe:
			r.printer.Describe(res.Stats)
		case config.SummaryMoments:
			r.printer.Moments(res.Stats)
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	if opts.NoChart {
		r.skipStage(res, StagePlot)
	} else {
		err = r.runStage(ctx, res, StagePlot, func(ctx context.Context) error {
			p, chartOpts, err := BuildChart(rc, res.View, res.Stats)
			if err != nil {
				return err
			}
			path := r.chartPath(rc.Chart.Output, opts.ChartDir)
			if err := r.renderer.Save(ctx, p, chartOpts, path); err != nil {
				return err
			}
			res.ChartPath = path
			return nil
		})
		if err != nil {
			return res, err
		}
	}

	if len(opts.Formats) == 0 {
		r.skipStage(res, StageExport)
	} else {
		err = r.runStage(ctx, res, StageExport, func(ctx context.Context) error {
			sheets := []exporter.Sheet{
				{Name: config.ViewYears, Table: res.Views.Years},
				{Name: config.ViewRows, Table: res.Views.RowComplete},
				{Name: config.ViewColumns, Table: res.Views.ColumnComplete},
			}
			written, err := r.exporter.Export(ctx, rc.Name, sheets, opts.Formats)
			res.Exports = append(res.Exports, written...)
			if err != nil {
				return err
			}
			path, err := r.exporter.ExportStats(ctx, rc.Name, res.Stats)
			if err != nil {
				return err
			}
			res.Exports = append(res.Exports, path)
			return nil
		})
		if err != nil {
			return res, err
		}
	}

	res.Duration = time.Since(start)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"report.indicator": res.Indicator,
		"report.years":     res.View.Nrow(),
		"report.countries": res.View.Countries(),
	})
	logger.InfoContext(ctx, "report completed",
		slog.String("indicator", res.Indicator),
		slog.Int("years", res.View.Nrow()),
		slog.Int("countries", res.View.Ncountries()),
		slog.String("chart_path", res.ChartPath),
		slog.Int("exports", len(res.Exports)),
		slog.Duration("duration", res.Duration))
	return res, nil
}

// chartPath places relative outputs under dir, or the configured charts directory
func (r *Runner) chartPath(output, dir string) string {
	if filepath.IsAbs(output) {
		return output
	}
	if dir != "" {
		return filepath.Join(dir, output)
	}
	return r.paths.GetChartPath(output)
}

// SelectView returns the table a report works on
func SelectView(v *dataprocessing.Views, view string) (*dataprocessing.YearTable, error) {
	switch view {
	case config.ViewRows:
		return v.RowComplete, nil
	case config.ViewColumns:
		return v.ColumnComplete, nil
	case config.ViewYears:
		return v.Years, nil
	default:
		return nil, errors.NewAppValidationError(fmt.Sprintf("unknown view %q", view))
	}
}

// NarrowView keeps countries, in order, and drops the years any of them
// is missing
func NarrowView(view *dataprocessing.YearTable, countries []string) (*dataprocessing.YearTable, error) {
	narrowed, err := view.Select(countries)
	if err != nil {
		return nil, err
	}
	return narrowed.DropIncompleteRows(), nil
}

// BuildChart turns a report's chart settings and view into a plot
func BuildChart(rc *config.ReportConfig, view *dataprocessing.YearTable, stats []dataprocessing.CountryStats) (*plot.Plot, chart.Options, error) {
	c := rc.Chart
	opts := chart.Options{
		Title:  c.Title,
		XLabel: c.XLabel,
		YLabel: c.YLabel,
		YMin:   c.YMin,
		YMax:   c.YMax,
		Width:  c.Width,
		Height: c.Height,
	}
	if strings.Contains(opts.Title, MedianPlaceholder) {
		median := dataprocessing.MedianOfMedians(view)
		opts.Title = strings.ReplaceAll(opts.Title, MedianPlaceholder, fmt.Sprintf("%.2f", median))
	}

	var (
		p   *plot.Plot
		err error
	)
	switch c.Kind {
	case config.ChartBar:
		t := view
		if c.ResampleYears > 0 {
			if t, err = dataprocessing.Resample(view, c.ResampleYears); err != nil {
				return nil, opts, err
			}
		}
		p, err = chart.Bar(t, opts)
	case config.ChartPie:
		sums := dataprocessing.Sums(view)
		slices := make([]chart.Slice, 0, len(sums))
		for _, country := range view.Countries() {
			slices = append(slices, chart.Slice{Label: country, Value: sums[country]})
		}
		p, err = chart.Pie(slices, opts)
	case config.ChartLine:
		opts.Legend = make([]string, len(stats))
		for i, s := range stats {
			opts.Legend[i] = LegendLabel(s)
		}
		p, err = chart.Line(view, opts)
	default:
		err = errors.NewAppValidationError(fmt.Sprintf("unknown chart kind %q", c.Kind))
	}
	return p, opts, err
}
