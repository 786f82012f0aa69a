package exporter

import (
	"math"
	"strconv"
)

// formatFloat formats a value for export with the shortest exact
// representation. Missing values become empty cells.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int value for export
func formatInt(i int) string {
	return strconv.Itoa(i)
}
