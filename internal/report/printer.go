package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"wbstats/internal/dataprocessing"
)

// Headings printed above each section
const (
	RowCompleteHeading    = "Dataframe with rows containing NaN values removed:"
	ColumnCompleteHeading = "Dataframe with columns containing NaN values removed:"
	MomentsHeading        = "Statistical properties for G7 countries:"
)

// Printer writes tables and summaries to the terminal
type Printer struct {
	out     io.Writer
	heading *color.Color
}

// NewPrinter creates a printer writing to out (stdout when nil)
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{
		out:     out,
		heading: color.New(color.FgYellow, color.Bold),
	}
}

// Views prints the row-complete and column-complete views with four decimals
func (p *Printer) Views(rowComplete, columnComplete *dataprocessing.YearTable) {
	p.Table(RowCompleteHeading, rowComplete)
	p.Table(ColumnCompleteHeading, columnComplete)
}

// Table prints one year table under a heading
func (p *Printer) Table(heading string, t *dataprocessing.YearTable) {
	p.heading.Fprintln(p.out, heading)

	records := t.Records("%.4f")
	table := p.newTable(records[0])
	table.AppendBulk(records[1:])
	table.Render()
	fmt.Fprintln(p.out)
}

// Describe prints count, mean, std, min, quartiles and max per country
func (p *Printer) Describe(stats []dataprocessing.CountryStats) {
	header := make([]string, 0, len(stats)+1)
	header = append(header, "")
	for _, s := range stats {
		header = append(header, s.Country)
	}

	rows := []struct {
		label string
		value func(dataprocessing.CountryStats) float64
	}{
		{"count", func(s dataprocessing.CountryStats) float64 { return float64(s.Count) }},
		{"mean", func(s dataprocessing.CountryStats) float64 { return s.Mean }},
		{"std", func(s dataprocessing.CountryStats) float64 { return s.Std }},
		{"min", func(s dataprocessing.CountryStats) float64 { return s.Min }},
		{"25%", func(s dataprocessing.CountryStats) float64 { return s.Q1 }},
		{"50%", func(s dataprocessing.CountryStats) float64 { return s.Median }},
		{"75%", func(s dataprocessing.CountryStats) float64 { return s.Q3 }},
		{"max", func(s dataprocessing.CountryStats) float64 { return s.Max }},
	}

	table := p.newTable(header)
	for _, r := range rows {
		rec := make([]string, 0, len(stats)+1)
		rec = append(rec, r.label)
		for _, s := range stats {
			rec = append(rec, fmt.Sprintf("%.6f", r.value(s)))
		}
		table.Append(rec)
	}
	table.Render()
	fmt.Fprintln(p.out)
}

// Moments prints one line of mean, median, variance and std per country
func (p *Printer) Moments(stats []dataprocessing.CountryStats) {
	p.heading.Fprintln(p.out, MomentsHeading)
	for _, s := range stats {
		fmt.Fprintln(p.out, MomentsLine(s))
	}
}

// MomentsLine formats the printed statistics line for one country
func MomentsLine(s dataprocessing.CountryStats) string {
	return fmt.Sprintf("%s - mean: %.2f, median: %.2f, variance: %.2f, std: %.2f",
		s.Country, s.Mean, s.Median, s.Variance, s.Std)
}

// LegendLabel formats a line-chart legend entry carrying the same statistics
func LegendLabel(s dataprocessing.CountryStats) string {
	return fmt.Sprintf("%s (mean=%.2f, median=%.2f, variance=%.2f, std=%.2f)",
		s.Country, s.Mean, s.Median, s.Variance, s.Std)
}

func (p *Printer) newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}
