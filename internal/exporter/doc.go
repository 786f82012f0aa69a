// Package exporter writes year-indexed tables and their statistics to disk.
//
// CSVWriter streams tables to CSV files with a UTF-8 BOM for Excel
// compatibility. XLSXWriter writes one worksheet per table with excelize.
// ViewExporter ties both to a report name:
//
//	exp := exporter.NewViewExporter(paths, logger)
//	files, err := exp.Export(ctx, "forest", []exporter.Sheet{
//	    {Name: "rows", Table: rows},
//	    {Name: "columns", Table: cols},
//	}, []string{exporter.FormatCSV, exporter.FormatXLSX})
//
// Missing values are written as empty cells.
package exporter
