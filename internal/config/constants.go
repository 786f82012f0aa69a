package config

// Application constants
const (
	// Application Info
	AppName    = "wbstats"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable (WBSTATS_LOGGING_LEVEL, ...)
	EnvPrefix = "WBSTATS"

	// File Paths (relative to the base directory)
	DefaultDataDir    = "data"
	DefaultChartsDir  = "charts"
	DefaultExportsDir = "exports"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "wbstats.log"
	DefaultTraceFile  = "trace.json"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "both"

	// World Bank exports carry four preamble lines (data source, blank,
	// last-updated date, blank) ahead of the real header.
	WorldBankPreambleRows = 4

	// Chart defaults, in inches
	DefaultChartWidth  = 10.0
	DefaultChartHeight = 7.0
)

// Report views
const (
	ViewRows    = "rows"
	ViewColumns = "columns"
	ViewYears   = "years"
)

// Chart kinds
const (
	ChartBar  = "bar"
	ChartPie  = "pie"
	ChartLine = "line"
)

// Summary styles printed after a report
const (
	SummaryDescribe = "describe"
	SummaryMoments  = "moments"
)

// G7Countries is the fixed seven-country selection used by every default report.
var G7Countries = []string{
	"Canada", "France", "Germany", "Italy", "Japan", "United Kingdom", "United States",
}
