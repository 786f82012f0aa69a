package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbstats/internal/dataprocessing"
)

func init() {
	color.NoColor = true
}

func TestPrinter_Views(t *testing.T) {
	table, err := dataprocessing.NewYearTable(
		[]string{"1960", "1961"},
		[]string{"Canada", "Japan"},
		[][]float64{{1.5, 2}, {math.NaN(), 3.25}},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	NewPrinter(&buf).Views(table.DropIncompleteRows(), table.DropEmptyColumns())
	out := buf.String()

	assert.Contains(t, out, RowCompleteHeading)
	assert.Contains(t, out, ColumnCompleteHeading)
	assert.Contains(t, out, "3.2500")
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, "Canada")
	assert.Less(t, strings.Index(out, RowCompleteHeading), strings.Index(out, ColumnCompleteHeading))
}

func TestPrinter_Describe(t *testing.T) {
	stats := []dataprocessing.CountryStats{
		{Country: "Italy", Count: 4, Mean: 2.5, Std: 1.290994, Min: 1, Q1: 1.75, Median: 2.5, Q3: 3.25, Max: 4},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).Describe(stats)
	out := buf.String()

	for _, label := range []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"} {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, "Italy")
	assert.Contains(t, out, "1.750000")
	assert.Contains(t, out, "4.000000")
}

func TestPrinter_Moments(t *testing.T) {
	stats := []dataprocessing.CountryStats{
		{Country: "Japan", Mean: 13.456, Median: 13.4, Variance: 0.25, Std: 0.5},
		{Country: "Canada", Mean: 7, Median: 7, Variance: math.NaN(), Std: math.NaN()},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).Moments(stats)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, MomentsHeading, lines[0])
	assert.Equal(t, "Japan - mean: 13.46, median: 13.40, variance: 0.25, std: 0.50", lines[1])
	assert.Equal(t, "Canada - mean: 7.00, median: 7.00, variance: NaN, std: NaN", lines[2])
}

func TestLegendLabel(t *testing.T) {
	s := dataprocessing.CountryStats{Country: "France", Mean: 52.1234, Median: 52, Variance: 1.5, Std: 1.2247}
	assert.Equal(t, "France (mean=52.12, median=52.00, variance=1.50, std=1.22)", LegendLabel(s))
}
