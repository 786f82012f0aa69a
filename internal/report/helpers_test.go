package report

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"wbstats/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// writeExport writes a World Bank style export with a four line preamble
// into the data directory and returns its file name
func writeExport(t *testing.T, paths *config.Paths, name string, years []string, rows map[string][]string, order []string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("\"Data Source\",\"World Development Indicators\",\n\n\"Last Updated Date\",\"2023-03-30\",\n\n")
	b.WriteString(`"Country Name","Country Code","Indicator Name","Indicator Code"`)
	for _, y := range years {
		fmt.Fprintf(&b, `,"%s"`, y)
	}
	b.WriteString(",\n")
	for _, c := range order {
		fmt.Fprintf(&b, `"%s","%s","Agricultural land (%% of land area)","AG.LND.AGRI.ZS"`, c, strings.ToUpper(c[:3]))
		for _, v := range rows[c] {
			fmt.Fprintf(&b, `,"%s"`, v)
		}
		b.WriteString(",\n")
	}

	require.NoError(t, os.MkdirAll(paths.DataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(paths.DataDir, name), []byte(b.String()), 0644))
	return name
}

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	paths, err := config.ResolvePaths(config.PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

var testYears = []string{"1960", "1961", "1962", "1963", "1964", "1965"}

var testRows = map[string][]string{
	"Canada":  {"1", "2", "3", "4", "5", "6"},
	"France":  {"2", "4", "", "8", "10", "12"},
	"Germany": {"", "", "", "", "", ""},
}

var testOrder = []string{"Canada", "France", "Germany"}
