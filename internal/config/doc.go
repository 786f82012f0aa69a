// Package config provides centralized configuration management for wbstats.
// It loads the logging, path and tracing settings together with the list of
// indicator reports, validates them, and resolves every file system path the
// tool touches.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern WBSTATS_* for namespacing:
//
//	WBSTATS_LOGGING_LEVEL=debug
//	WBSTATS_LOGGING_OUTPUT=console
//	WBSTATS_PATHS_DATA_DIR=/srv/worldbank
//	WBSTATS_TRACING_ENABLED=true
//
// Reports can only be set from the YAML file. A file that lists reports
// replaces the built-in G7 reports entirely.
//
// # Reports
//
// Each report names a World Bank CSV export, the cleaning options (skipped
// preamble rows, year range, stride, countries) and the chart to render:
//
//	reports:
//	  - name: forest
//	    source: forest land.csv
//	    skip_rows: 4
//	    stride: 5
//	    chart:
//	      kind: bar
//	      y_min: 0
//	      y_max: 100
//
// # Path Management
//
// ResolvePaths anchors relative directories at the configured base directory,
// or at the executable directory when none is set:
//
//	paths, err := config.ResolvePaths(cfg.Paths)
//	chartPath := paths.GetChartPath("forest.png")
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing
//
// Default returns a complete configuration that needs no environment
// variables or files.
package config
