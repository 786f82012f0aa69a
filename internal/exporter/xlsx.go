package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"wbstats/internal/config"
	"wbstats/internal/dataprocessing"
)

// Sheet is one worksheet of an XLSX export
type Sheet struct {
	Name  string
	Table *dataprocessing.YearTable
}

// XLSXWriter writes year-indexed tables to Excel workbooks
type XLSXWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewXLSXWriter creates a new XLSX writer. Relative file names are placed in
// the exports directory.
func NewXLSXWriter(paths *config.Paths, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{paths: paths, logger: logger}
}

// WriteWorkbook writes one sheet per table. Values are numeric cells and
// missing values are left blank.
func (w *XLSXWriter) WriteWorkbook(ctx context.Context, filePath string, sheets []Sheet) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook needs at least one sheet")
	}

	fullPath := filePath
	if !filepath.IsAbs(fullPath) && w.paths != nil {
		fullPath = w.paths.GetExportPath(filePath)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return "", fmt.Errorf("failed to name sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return "", fmt.Errorf("failed to add sheet %s: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.InfoContext(ctx, "Wrote XLSX workbook",
		slog.String("full_path", fullPath),
		slog.Int("sheet_count", len(sheets)))
	return fullPath, nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	countries := sheet.Table.Countries()

	header := make([]interface{}, 0, len(countries)+1)
	header = append(header, dataprocessing.YearColumn)
	for _, c := range countries {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet.Name, err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet.Name, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet.Name, err)
	}

	for c, country := range countries {
		values, err := sheet.Table.Values(country)
		if err != nil {
			return err
		}
		for r, v := range values {
			if math.IsNaN(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+2, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellFloat(sheet.Name, cell, v, -1, 64); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}

	for r, year := range sheet.Table.Years() {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet.Name, cell, year); err != nil {
			return fmt.Errorf("failed to write %s: %w", cell, err)
		}
	}

	return nil
}
