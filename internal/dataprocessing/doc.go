// Package dataprocessing turns World Bank indicator exports into year-indexed
// tables and computes the statistics the reports print and plot.
//
// # Architecture
//
//  1. Parser: reads the CSV, skipping preamble lines and a UTF-8 BOM
//  2. Loader: checks the schema, selects year columns, transposes countries
//     into columns and derives the two cleaned views
//  3. Analytics: per-country descriptive statistics, totals and resampling
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.DefaultSchema())
//	rows, cols, err := loader.LoadFile(ctx, "forest land.csv", dataprocessing.Options{
//	    SkipRows: 4,
//	    Stride:   5,
//	})
//
// rows has every year with a missing value removed; cols has every country
// without any value removed. Both keep the source country order and list
// years in ascending order.
//
// # Error Handling
//
// Schema mismatches (missing "Country Name" or metadata columns, non-year
// headers, duplicate countries, unknown countries in a filter) are DATA_FORMAT
// AppErrors. Errors opening or reading the source are returned unchanged.
package dataprocessing
