package dataprocessing

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"wbstats/internal/errors"
	"wbstats/internal/infrastructure"
)

// Options controls how a raw indicator export is cleaned
type Options struct {
	// SkipRows is the number of physical lines ahead of the header
	SkipRows int
	// Stride keeps every Nth year column, starting with the first selected year
	Stride int
	// FirstYear and LastYear bound the year columns (inclusive, empty means open)
	FirstYear string
	LastYear  string
	// Countries selects and orders the country columns; empty keeps all
	Countries []string
}

// Views holds the year-indexed table and the two views derived from it
type Views struct {
	// Indicator is the Indicator Name of the first data row, if any
	Indicator string
	// Years is the full year-indexed table
	Years *YearTable
	// RowComplete has every year with a missing value removed
	RowComplete *YearTable
	// ColumnComplete has every all-missing country removed
	ColumnComplete *YearTable
	// DroppedColumns counts blank-named trailing header columns that were discarded
	DroppedColumns int
}

// Loader turns World Bank indicator exports into year-indexed tables
type Loader struct {
	logger *slog.Logger
	schema Schema
}

// NewLoader creates a loader for the given schema
func NewLoader(logger *slog.Logger, schema Schema) *Loader {
	return &Loader{
		logger: infrastructure.WithComponent(logger, "loader"),
		schema: schema,
	}
}

// Load reads r and returns the row-complete and column-complete views
func (l *Loader) Load(ctx context.Context, r io.Reader, opts Options) (rowComplete, columnComplete *YearTable, err error) {
	views, err := l.Read(ctx, r, opts)
	if err != nil {
		return nil, nil, err
	}
	return views.RowComplete, views.ColumnComplete, nil
}

// LoadFile is Load for a file path. Open and read failures are returned
// unchanged so callers can test them with errors.Is.
func (l *Loader) LoadFile(ctx context.Context, path string, opts Options) (rowComplete, columnComplete *YearTable, err error) {
	views, err := l.ReadFile(ctx, path, opts)
	if err != nil {
		return nil, nil, err
	}
	return views.RowComplete, views.ColumnComplete, nil
}

// ReadFile is Read for a file path
func (l *Loader) ReadFile(ctx context.Context, path string, opts Options) (*Views, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	views, err := l.Read(ctx, f, opts)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			appErr.WithContext("source", path)
		}
		return nil, err
	}
	return views, nil
}

// Read parses r and builds the year-indexed table and both views
func (l *Loader) Read(ctx context.Context, r io.Reader, opts Options) (*Views, error) {
	start := time.Now()

	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	records, err := ReadRecords(r, opts.SkipRows)
	if err != nil {
		return nil, err
	}

	layout, err := l.resolveHeader(records[0])
	if err != nil {
		return nil, err
	}

	layout.years = selectYears(layout.years, opts)

	table, indicator, err := l.transpose(records[1:], layout)
	if err != nil {
		return nil, err
	}

	if len(opts.Countries) > 0 {
		if table, err = table.Select(opts.Countries); err != nil {
			return nil, err
		}
	}

	views := &Views{
		Indicator:      indicator,
		Years:          table,
		RowComplete:    table.DropIncompleteRows(),
		ColumnComplete: table.DropEmptyColumns(),
		DroppedColumns: layout.dropped,
	}

	infrastructure.AddSpanEvent(ctx, "views_built", map[string]interface{}{
		"years":                     table.Nrow(),
		"countries":                 table.Ncountries(),
		"row_complete_years":        views.RowComplete.Nrow(),
		"column_complete_countries": views.ColumnComplete.Ncountries(),
		"dropped_blank_columns":     layout.dropped,
	})
	l.logger.InfoContext(ctx, "indicator table loaded",
		slog.String("indicator", indicator),
		slog.Int("years", table.Nrow()),
		slog.Int("countries", table.Ncountries()),
		slog.Int("row_complete_years", views.RowComplete.Nrow()),
		slog.Int("column_complete_countries", views.ColumnComplete.Ncountries()),
		slog.Int("dropped_blank_columns", layout.dropped),
		slog.Duration("duration", time.Since(start)))

	return views, nil
}

func validateOptions(opts Options) error {
	if opts.SkipRows < 0 {
		return errors.NewAppValidationError(fmt.Sprintf("skip rows must not be negative, got %d", opts.SkipRows))
	}
	if opts.Stride < 1 {
		return errors.NewAppValidationError(fmt.Sprintf("stride must be at least 1, got %d", opts.Stride))
	}
	for _, y := range []string{opts.FirstYear, opts.LastYear} {
		if y == "" {
			continue
		}
		if _, err := time.Parse(YearLayout, y); err != nil {
			return errors.NewAppValidationError(fmt.Sprintf("invalid year bound %q", y))
		}
	}
	return nil
}

// yearColumn is a year header with its position in the raw record
type yearColumn struct {
	index int
	label string
	year  int
}

type headerLayout struct {
	keyIndex       int
	indicatorIndex int
	years          []yearColumn
	dropped        int
}

// resolveHeader checks the schema columns and classifies the rest as years
func (l *Loader) resolveHeader(header []string) (*headerLayout, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		if h == "" {
			continue
		}
		if _, dup := positions[h]; dup {
			return nil, errors.NewDataFormatError(fmt.Sprintf("duplicate column %q", h))
		}
		positions[h] = i
	}

	keyIndex, ok := positions[l.schema.KeyColumn]
	if !ok {
		return nil, errors.NewDataFormatError(fmt.Sprintf("required column %q not found", l.schema.KeyColumn)).
			WithContext("header", header)
	}

	known := map[int]bool{keyIndex: true}
	for _, m := range l.schema.MetadataColumns {
		idx, ok := positions[m]
		if !ok {
			return nil, errors.NewDataFormatError(fmt.Sprintf("required column %q not found", m)).
				WithContext("header", header)
		}
		known[idx] = true
	}

	layout := &headerLayout{keyIndex: keyIndex, indicatorIndex: -1}
	if idx, ok := positions[IndicatorNameColumn]; ok {
		layout.indicatorIndex = idx
	}

	prev := math.MinInt
	for i, h := range header {
		if known[i] {
			continue
		}
		if h == "" {
			layout.dropped++
			continue
		}
		label, year, err := normalizeYear(h)
		if err != nil {
			return nil, errors.NewDataFormatError(fmt.Sprintf("column %q is not a year", h)).
				WithContext("position", i)
		}
		if year <= prev {
			return nil, errors.NewDataFormatError(fmt.Sprintf("year column %q is out of order", h))
		}
		prev = year
		layout.years = append(layout.years, yearColumn{index: i, label: label, year: year})
	}

	return layout, nil
}

// normalizeYear maps a header such as "1960" to its canonical label
func normalizeYear(h string) (string, int, error) {
	t, err := time.Parse(YearLayout, strings.TrimSpace(h))
	if err != nil {
		return "", 0, err
	}
	return t.Format(YearLayout), t.Year(), nil
}

// selectYears applies the year range, then the stride
func selectYears(years []yearColumn, opts Options) []yearColumn {
	first, last := math.MinInt, math.MaxInt
	if opts.FirstYear != "" {
		first, _ = strconv.Atoi(opts.FirstYear)
	}
	if opts.LastYear != "" {
		last, _ = strconv.Atoi(opts.LastYear)
	}

	inRange := make([]yearColumn, 0, len(years))
	for _, y := range years {
		if y.year >= first && y.year <= last {
			inRange = append(inRange, y)
		}
	}

	selected := make([]yearColumn, 0, len(inRange)/opts.Stride+1)
	for i := 0; i < len(inRange); i += opts.Stride {
		selected = append(selected, inRange[i])
	}
	return selected
}

// transpose turns country rows into country columns over the selected years
func (l *Loader) transpose(rows [][]string, layout *headerLayout) (*YearTable, string, error) {
	labels := make([]string, len(layout.years))
	for i, y := range layout.years {
		labels[i] = y.label
	}

	countries := make([]string, 0, len(rows))
	values := make([][]float64, 0, len(rows))
	indicator := ""

	for n, rec := range rows {
		if isBlankRecord(rec) {
			continue
		}
		country := strings.TrimSpace(cell(rec, layout.keyIndex))
		if indicator == "" && layout.indicatorIndex >= 0 {
			indicator = strings.TrimSpace(cell(rec, layout.indicatorIndex))
		}

		col := make([]float64, len(layout.years))
		for i, y := range layout.years {
			raw := strings.TrimSpace(cell(rec, y.index))
			if l.schema.isMissing(raw) {
				col[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, "", errors.NewDataFormatError(fmt.Sprintf("value %q for %s in %s is not numeric", raw, country, y.label)).
					WithContext("row", n+1)
			}
			col[i] = v
		}

		countries = append(countries, country)
		values = append(values, col)
	}

	table, err := NewYearTable(labels, countries, values)
	if err != nil {
		return nil, "", err
	}
	return table, indicator, nil
}

// cell returns rec[i], treating cells beyond a short record as empty
func cell(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

func isBlankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
