package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"wbstats/internal/config"
	"wbstats/internal/dataprocessing"
	"wbstats/internal/errors"
	"wbstats/internal/infrastructure"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ParseFormats splits a comma separated format list such as "csv,xlsx"
func ParseFormats(list string) ([]string, error) {
	var formats []string
	seen := map[string]bool{}
	for _, f := range strings.Split(list, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if f != FormatCSV && f != FormatXLSX {
			return nil, errors.NewAppValidationError(fmt.Sprintf("unknown export format %q", f))
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}

// ViewExporter writes a report's tables in the requested formats
type ViewExporter struct {
	csv    *CSVWriter
	xlsx   *XLSXWriter
	logger *slog.Logger
}

// NewViewExporter creates an exporter writing into paths.ExportsDir
func NewViewExporter(paths *config.Paths, logger *slog.Logger) *ViewExporter {
	logger = infrastructure.WithComponent(logger, "exporter")
	return &ViewExporter{
		csv:    NewCSVWriter(paths, logger),
		xlsx:   NewXLSXWriter(paths, logger),
		logger: logger,
	}
}

// Export writes every sheet as <report>_<sheet>.csv and/or all sheets into
// <report>.xlsx, returning the written paths
func (e *ViewExporter) Export(ctx context.Context, report string, sheets []Sheet, formats []string) ([]string, error) {
	var written []string
	for _, format := range formats {
		switch format {
		case FormatCSV:
			for _, s := range sheets {
				path, err := e.csv.WriteTable(ctx, fmt.Sprintf("%s_%s.csv", report, s.Name), s.Table)
				if err != nil {
					return written, errors.NewStorageError("failed to export "+s.Name+" view", err)
				}
				written = append(written, path)
			}
		case FormatXLSX:
			path, err := e.xlsx.WriteWorkbook(ctx, report+".xlsx", sheets)
			if err != nil {
				return written, errors.NewStorageError("failed to export workbook", err)
			}
			written = append(written, path)
		default:
			return written, errors.NewAppValidationError(fmt.Sprintf("unknown export format %q", format))
		}
	}
	return written, nil
}

// ExportStats writes per-country statistics to <report>_stats.csv
func (e *ViewExporter) ExportStats(ctx context.Context, report string, stats []dataprocessing.CountryStats) (string, error) {
	records := make([][]string, 0, len(stats))
	for _, s := range stats {
		records = append(records, []string{
			s.Country,
			formatInt(s.Count),
			formatFloat(s.Mean),
			formatFloat(s.Std),
			formatFloat(s.Variance),
			formatFloat(s.Min),
			formatFloat(s.Q1),
			formatFloat(s.Median),
			formatFloat(s.Q3),
			formatFloat(s.Max),
			formatFloat(s.Sum),
		})
	}

	path, err := e.csv.WriteCSV(ctx, report+"_stats.csv", WriteOptions{
		Headers:   []string{"Country", "Count", "Mean", "Std", "Variance", "Min", "25%", "50%", "75%", "Max", "Sum"},
		Records:   records,
		BOMPrefix: true,
	})
	if err != nil {
		return "", errors.NewStorageError("failed to export statistics", err)
	}
	return path, nil
}
