package dataprocessing

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"wbstats/internal/errors"
)

// YearTable is a year-indexed indicator table backed by a gota DataFrame: a
// string Year column followed by one float column per country. Missing cells
// hold NaN. Tables are never mutated; every operation returns a new one.
type YearTable struct {
	df dataframe.DataFrame
}

// NewYearTable builds a table from year labels, country names and one value
// slice per country (values[i] belongs to countries[i]).
func NewYearTable(years, countries []string, values [][]float64) (*YearTable, error) {
	if len(countries) != len(values) {
		return nil, fmt.Errorf("got %d countries but %d value columns", len(countries), len(values))
	}

	seen := make(map[string]bool, len(countries))
	cols := make([]series.Series, 0, len(countries)+1)
	cols = append(cols, series.New(years, series.String, YearColumn))
	for i, c := range countries {
		switch {
		case c == "":
			return nil, errors.NewDataFormatError("empty country name")
		case c == YearColumn:
			return nil, errors.NewDataFormatError(fmt.Sprintf("country name %q collides with the year column", c))
		case seen[c]:
			return nil, errors.NewDataFormatError(fmt.Sprintf("duplicate country %q", c))
		}
		seen[c] = true

		if len(values[i]) != len(years) {
			return nil, fmt.Errorf("country %s has %d values for %d years", c, len(values[i]), len(years))
		}
		cols = append(cols, series.New(values[i], series.Float, c))
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, fmt.Errorf("build year table: %w", df.Err)
	}
	return &YearTable{df: df}, nil
}

// Nrow returns the number of years
func (t *YearTable) Nrow() int {
	return t.df.Nrow()
}

// Ncountries returns the number of country columns
func (t *YearTable) Ncountries() int {
	return t.df.Ncol() - 1
}

// Years returns the year labels in row order
func (t *YearTable) Years() []string {
	return t.df.Col(YearColumn).Records()
}

// Countries returns the country names in column order
func (t *YearTable) Countries() []string {
	names := t.df.Names()
	return append([]string(nil), names[1:]...)
}

// HasCountry reports whether the table has a column for country
func (t *YearTable) HasCountry(country string) bool {
	for _, c := range t.Countries() {
		if c == country {
			return true
		}
	}
	return false
}

// Values returns a copy of one country's values in year order
func (t *YearTable) Values(country string) ([]float64, error) {
	if !t.HasCountry(country) {
		return nil, errors.NewDataFormatError(fmt.Sprintf("unknown country %q", country))
	}
	return t.df.Col(country).Float(), nil
}

// columns returns every country's values in column order
func (t *YearTable) columns() [][]float64 {
	countries := t.Countries()
	out := make([][]float64, len(countries))
	for i, c := range countries {
		out[i] = t.df.Col(c).Float()
	}
	return out
}

// hasMissing reports whether any cell is missing
func (t *YearTable) hasMissing() bool {
	for _, col := range t.columns() {
		for _, v := range col {
			if math.IsNaN(v) {
				return true
			}
		}
	}
	return false
}

// Select keeps the named countries in the given order. Unknown or repeated
// names are DATA_FORMAT errors.
func (t *YearTable) Select(countries []string) (*YearTable, error) {
	values := make([][]float64, 0, len(countries))
	for _, c := range countries {
		if !t.HasCountry(c) {
			return nil, errors.NewDataFormatError(fmt.Sprintf("unknown country %q", c)).
				WithContext("available", t.Countries())
		}
		values = append(values, t.df.Col(c).Float())
	}
	return NewYearTable(t.Years(), countries, values)
}

// DropIncompleteRows removes every year with at least one missing value
func (t *YearTable) DropIncompleteRows() *YearTable {
	cols := t.columns()
	keep := make([]int, 0, t.Nrow())
	for row := 0; row < t.Nrow(); row++ {
		complete := true
		for _, col := range cols {
			if math.IsNaN(col[row]) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, row)
		}
	}
	return t.keepRows(keep, cols)
}

// DropEmptyColumns removes every country that is missing for all years.
// Partially missing countries stay, NaN cells included.
func (t *YearTable) DropEmptyColumns() *YearTable {
	countries := t.Countries()
	cols := t.columns()

	keptCountries := make([]string, 0, len(countries))
	keptValues := make([][]float64, 0, len(cols))
	for i, col := range cols {
		for _, v := range col {
			if !math.IsNaN(v) {
				keptCountries = append(keptCountries, countries[i])
				keptValues = append(keptValues, col)
				break
			}
		}
	}
	return t.mustRebuild(t.Years(), keptCountries, keptValues)
}

func (t *YearTable) keepRows(keep []int, cols [][]float64) *YearTable {
	years := t.Years()
	keptYears := make([]string, len(keep))
	for i, row := range keep {
		keptYears[i] = years[row]
	}
	keptValues := make([][]float64, len(cols))
	for c, col := range cols {
		keptValues[c] = make([]float64, len(keep))
		for i, row := range keep {
			keptValues[c][i] = col[row]
		}
	}
	return t.mustRebuild(keptYears, t.Countries(), keptValues)
}

// mustRebuild builds a subset of a valid table; the inputs come from an
// existing table so construction cannot fail.
func (t *YearTable) mustRebuild(years, countries []string, values [][]float64) *YearTable {
	out, err := NewYearTable(years, countries, values)
	if err != nil {
		panic(fmt.Sprintf("rebuild year table: %v", err))
	}
	return out
}

// Records returns the table as string rows, header first, with values
// formatted by format (missing cells become "NaN").
func (t *YearTable) Records(format string) [][]string {
	countries := t.Countries()
	cols := t.columns()
	years := t.Years()

	out := make([][]string, 0, len(years)+1)
	out = append(out, append([]string{YearColumn}, countries...))
	for row, y := range years {
		rec := make([]string, 0, len(countries)+1)
		rec = append(rec, y)
		for _, col := range cols {
			if math.IsNaN(col[row]) {
				rec = append(rec, "NaN")
			} else {
				rec = append(rec, fmt.Sprintf(format, col[row]))
			}
		}
		out = append(out, rec)
	}
	return out
}
