package report

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"wbstats/internal/config"
	"wbstats/internal/dataprocessing"
	"wbstats/internal/errors"
	"wbstats/internal/exporter"
	"wbstats/internal/shared/testutil"
)

func testReport(name, source string) config.ReportConfig {
	rc := config.ReportConfig{
		Name:     name,
		Source:   source,
		SkipRows: config.WorldBankPreambleRows,
		Stride:   1,
		View:     config.ViewColumns,
		Chart: config.ChartConfig{
			Kind:   config.ChartBar,
			Title:  "Test",
			Width:  4,
			Height: 3,
			Output: name + ".png",
		},
	}
	return rc
}

func stageStatuses(res *Result) map[Stage]StageStatus {
	out := make(map[Stage]StageStatus, len(res.Stages))
	for _, s := range res.Stages {
		out[s.Stage] = s.Status
	}
	return out
}

func TestRunner_RunBarWithExport(t *testing.T) {
	paths := testPaths(t)
	source := writeExport(t, paths, "agri.csv", testYears, testRows, testOrder)

	rc := testReport("agri", source)
	rc.View = config.ViewRows
	rc.Countries = []string{"Canada", "France"}
	rc.Chart.ResampleYears = 2

	var out bytes.Buffer
	runner := NewRunner(paths, nil, NewPrinter(&out), quietLogger())
	res, err := runner.Run(context.Background(), &rc, RunOptions{Formats: []string{exporter.FormatCSV}})
	require.NoError(t, err)

	assert.Equal(t, "Agricultural land (% of land area)", res.Indicator)
	assert.Equal(t, []string{"1960", "1961", "1963", "1964", "1965"}, res.View.Years())
	assert.Equal(t, []string{"Canada", "France"}, res.View.Countries())

	assert.Equal(t, paths.GetChartPath("agri.png"), res.ChartPath)
	assert.FileExists(t, res.ChartPath)

	require.Len(t, res.Exports, 4)
	for _, p := range res.Exports {
		assert.FileExists(t, p)
	}
	for _, view := range []string{config.ViewYears, config.ViewRows, config.ViewColumns} {
		assert.Contains(t, res.Exports, paths.GetExportPath("agri_"+view+".csv"), "every view is exported whatever the report charts")
	}
	assert.Contains(t, res.Exports, paths.GetExportPath("agri_stats.csv"))

	assert.Equal(t, map[Stage]StageStatus{
		StageRead:      StageStatusCompleted,
		StageClean:     StageStatusCompleted,
		StageAggregate: StageStatusCompleted,
		StagePlot:      StageStatusCompleted,
		StageExport:    StageStatusCompleted,
	}, stageStatuses(res))
	assert.Empty(t, out.String(), "nothing is printed unless configured")
}

func TestRunner_NoChartSkipsPlot(t *testing.T) {
	paths := testPaths(t)
	source := writeExport(t, paths, "agri.csv", testYears, testRows, testOrder)
	rc := testReport("agri", source)

	runner := NewRunner(paths, nil, NewPrinter(&bytes.Buffer{}), quietLogger())
	res, err := runner.Run(context.Background(), &rc, RunOptions{NoChart: true})
	require.NoError(t, err)

	assert.Empty(t, res.ChartPath)
	assert.NoFileExists(t, paths.GetChartPath("agri.png"))
	statuses := stageStatuses(res)
	assert.Equal(t, StageStatusSkipped, statuses[StagePlot])
	assert.Equal(t, StageStatusSkipped, statuses[StageExport])
}

func TestRunner_ChartDirOverride(t *testing.T) {
	paths := testPaths(t)
	source := writeExport(t, paths, "agri.csv", testYears, testRows, testOrder)
	rc := testReport("agri", source)
	rc.Chart.Output = "agri.svg"

	dir := filepath.Join(t.TempDir(), "out")
	runner := NewRunner(paths, nil, NewPrinter(&bytes.Buffer{}), quietLogger())
	res, err := runner.Run(context.Background(), &rc, RunOptions{ChartDir: dir})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "agri.svg"), res.ChartPath)
	assert.FileExists(t, res.ChartPath)
}

func TestRunner_PieWithDescribe(t *testing.T) {
	paths := testPaths(t)
	source := writeExport(t, paths, "losses.csv", testYears, testRows, testOrder)
	rc := testReport("losses", source)
	rc.Print.Summary = config.SummaryDescribe
	rc.Chart.Kind = config.ChartPie

	var out bytes.Buffer
	runner := NewRunner(paths, nil, NewPrinter(&out), quietLogger())
	res, err := runner.Run(context.Background(), &rc, RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Canada", "France"}, res.View.Countries(), "all-missing Germany is dropped")
	assert.Contains(t, out.String(), "75%")
	assert.FileExists(t, res.ChartPath)
}

func TestRunner_LineWithMoments(t *testing.T) {
	paths := testPaths(t)
	source := writeExport(t, paths, "agri.csv", testYears, testRows, testOrder)
	rc := testReport("agri", source)
	rc.View = config.ViewYears
	rc.Countries = []string{"France", "Canada"}
	rc.Print.Summary = config.SummaryMoments
	rc.Chart.Kind = config.ChartLine

	var out bytes.Buffer
	runner := NewRunner(paths, nil, NewPrinter(&out), quietLogger())
	res, err := runner.Run(context.Background(), &rc, RunOptions{})
	require.NoError(t, err)

	assert.Contains(t, out.String(), MomentsHeading)
	assert.Contains(t, out.String(), "France - mean: 7.20, median: 8.00")
	assert.Contains(t, out.String(), "Canada - mean: 3.50, median: 3.50, variance: 3.50, std: 1.87")
	assert.Equal(t, "France", res.Stats[0].Country)
}

func TestRunner_PrintsViews(t *testing.T) {
	paths := testPaths(t)
	source := writeExport(t, paths, "agri.csv", testYears, testRows, testOrder)
	rc := testReport("agri", source)
	rc.Print.Views = true

	var out bytes.Buffer
	runner := NewRunner(paths, nil, NewPrinter(&out), quietLogger())
	_, err := runner.Run(context.Background(), &rc, RunOptions{NoChart: true})
	require.NoError(t, err)

	assert.Contains(t, out.String(), RowCompleteHeading)
	assert.Contains(t, out.String(), ColumnCompleteHeading)
	assert.Contains(t, out.String(), "12.0000")
}

func TestRunner_ChartCountriesNarrowOnlyTheChartedView(t *testing.T) {
	paths := testPaths(t)
	source := writeExport(t, paths, "agri.csv", testYears, testRows, testOrder)
	rc := testReport("agri", source)
	rc.Print.Views = true
	rc.Chart.Countries = []string{"France"}

	var out bytes.Buffer
	runner := NewRunner(paths, nil, NewPrinter(&out), quietLogger())
	res, err := runner.Run(context.Background(), &rc, RunOptions{NoChart: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"Canada", "France", "Germany"}, res.Views.Years.Countries())
	assert.Contains(t, out.String(), "Canada", "printed views are not filtered")

	assert.Equal(t, []string{"France"}, res.View.Countries())
	assert.Equal(t, []string{"1960", "1961", "1963", "1964", "1965"}, res.View.Years())
	require.Len(t, res.Stats, 1)
	assert.Equal(t, "France", res.Stats[0].Country)

	rc.Chart.Countries = []string{"Atlantis"}
	res, err = runner.Run(context.Background(), &rc, RunOptions{NoChart: true})
	assert.True(t, errors.IsDataFormat(err))
	assert.Equal(t, StageStatusFailed, stageStatuses(res)[StageClean])
}

func TestRunner_Errors(t *testing.T) {
	paths := testPaths(t)
	source := writeExport(t, paths, "agri.csv", testYears, testRows, testOrder)
	runner := NewRunner(paths, nil, NewPrinter(&bytes.Buffer{}), quietLogger())

	t.Run("missing source is surfaced unchanged", func(t *testing.T) {
		rc := testReport("missing", "nope.csv")
		res, err := runner.Run(context.Background(), &rc, RunOptions{})
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, fs.ErrNotExist))
		assert.Equal(t, StageStatusFailed, stageStatuses(res)[StageRead])
		assert.Len(t, res.Stages, 1)
	})

	t.Run("unknown country", func(t *testing.T) {
		rc := testReport("agri", source)
		rc.Countries = []string{"Atlantis"}
		_, err := runner.Run(context.Background(), &rc, RunOptions{})
		assert.True(t, errors.IsDataFormat(err))
	})

	t.Run("unsupported chart format", func(t *testing.T) {
		rc := testReport("agri", source)
		rc.Chart.Output = "agri.gif"
		res, err := runner.Run(context.Background(), &rc, RunOptions{})
		assert.True(t, errors.IsType(err, errors.ErrTypeRender))
		assert.Equal(t, StageStatusFailed, stageStatuses(res)[StagePlot])
	})
}

func TestRunner_RunAllStopsAtFirstFailure(t *testing.T) {
	paths := testPaths(t)
	source := writeExport(t, paths, "agri.csv", testYears, testRows, testOrder)
	runner := NewRunner(paths, nil, NewPrinter(&bytes.Buffer{}), quietLogger())

	reports := []config.ReportConfig{
		testReport("first", source),
		testReport("broken", "nope.csv"),
		testReport("never", source),
	}
	results, err := runner.RunAll(context.Background(), reports, RunOptions{NoChart: true})
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "first", results[0].Report)

	_, statErr := os.Stat(paths.GetChartPath("never.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSelectView(t *testing.T) {
	table, err := dataprocessing.NewYearTable([]string{"1960"}, []string{"Japan"}, [][]float64{{1}})
	require.NoError(t, err)
	views := &dataprocessing.Views{Years: table, RowComplete: table, ColumnComplete: table}

	for _, v := range []string{config.ViewRows, config.ViewColumns, config.ViewYears} {
		got, err := SelectView(views, v)
		require.NoError(t, err, v)
		assert.Same(t, table, got)
	}

	_, err = SelectView(views, "diagonal")
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}

func TestBuildChart_MedianTitle(t *testing.T) {
	table, err := dataprocessing.NewYearTable(
		[]string{"1960", "1965"},
		[]string{"Canada", "France"},
		[][]float64{{3, 4}, {8, 8}},
	)
	require.NoError(t, err)

	rc := testReport("forest", "forest.csv")
	rc.Chart.Title = "Forest (Median: {median})"

	p, opts, err := BuildChart(&rc, table, dataprocessing.Describe(table))
	require.NoError(t, err)
	assert.Equal(t, "Forest (Median: 5.75)", opts.Title)
	assert.Equal(t, "Forest (Median: 5.75)", p.Title.Text)
}

func TestBuildChart_LineLegend(t *testing.T) {
	table, err := dataprocessing.NewYearTable(
		[]string{"1960", "1961"},
		[]string{"Italy"},
		[][]float64{{1, 3}},
	)
	require.NoError(t, err)

	rc := testReport("agri", "agri.csv")
	rc.Chart.Kind = config.ChartLine

	_, opts, err := BuildChart(&rc, table, dataprocessing.Describe(table))
	require.NoError(t, err)
	assert.Equal(t, []string{"Italy (mean=2.00, median=2.00, variance=2.00, std=1.41)"}, opts.Legend)
}

func TestBuildChart_UnknownKind(t *testing.T) {
	table, err := dataprocessing.NewYearTable([]string{"1960"}, []string{"Japan"}, [][]float64{{1}})
	require.NoError(t, err)

	rc := testReport("x", "x.csv")
	rc.Chart.Kind = "radar"
	_, _, err = BuildChart(&rc, table, nil)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}

func TestRunner_Logging(t *testing.T) {
	paths := testPaths(t)
	source := writeExport(t, paths, "agri.csv", testYears, testRows, testOrder)
	logger, logs := testutil.NewTestLogger(t)
	runner := NewRunner(paths, nil, NewPrinter(&bytes.Buffer{}), logger)

	rc := testReport("agri", source)
	_, err := runner.Run(context.Background(), &rc, RunOptions{NoChart: true})
	require.NoError(t, err)
	testutil.AssertNoErrors(t, logs)

	done, ok := logs.Find("report completed")
	require.True(t, ok)
	assert.Equal(t, "agri", done.Attrs["report"])
	assert.Equal(t, "runner", done.Attrs["component"])

	bad := testReport("broken", "nope.csv")
	_, err = runner.Run(context.Background(), &bad, RunOptions{})
	require.Error(t, err)

	failed, ok := logs.Find("stage failed")
	require.True(t, ok)
	assert.Equal(t, slog.LevelError, failed.Level)
	assert.Equal(t, string(StageRead), failed.Attrs["stage"])	assert.Contains(t, failed.Attrs["error"], "nope.csv")
}

func TestRunner_Spans(t *testing.T) {
	paths := testPaths(t)
	source := writeExport(t, paths, "agri.csv", testYears, testRows, testOrder)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	runner := NewRunner(paths, provider.Tracer("test"), NewPrinter(&bytes.Buffer{}), quietLogger())

	rc := testReport("agri", source)
	_, err := runner.Run(context.Background(), &rc, RunOptions{NoChart: true})
	require.NoError(t, err)

	bad := testReport("broken", "nope.csv")
	_, err = runner.Run(context.Background(), &bad, RunOptions{})
	require.Error(t, err)

	spans := make(map[string]sdktrace.ReadOnlySpan)
	for _, s := range recorder.Ended() {
		key := s.Name()
		for _, kv := range s.Attributes() {
			if kv.Key == "report.name" {
				key = kv.Value.AsString() + "/" + key
			}
		}
		spans[key] = s
	}

	read := spans["agri/read"]
	require.NotNil(t, read)
	require.Len(t, read.Events(), 1)
	assert.Equal(t, "views_built", read.Events()[0].Name)
	assert.Contains(t, read.Events()[0].Attributes, attribute.Int("column_complete_countries", 2))

	top := spans["report.agri"]
	require.NotNil(t, top)
	assert.Contains(t, top.Attributes(), attribute.String("report.source", "agri.csv"))
	assert.Contains(t, top.Attributes(), attribute.StringSlice("report.countries", []string{"Canada", "France"}))

	failed := spans["broken/read"]
	require.NotNil(t, failed)
	assert.Equal(t, codes.Error, failed.Status().Code)
	require.NotEmpty(t, failed.Events())
	assert.Equal(t, "exception", failed.Events()[0].Name)
}
