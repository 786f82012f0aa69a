package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const worldBankPreamble = "\"Data Source\",\"World Development Indicators\",\n" +
	"\n" +
	"\"Last Updated Date\",\"2023-03-30\",\n" +
	"\n"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// country is one data row of a test export
type country struct {
	name   string
	values []string
}

// indicatorCSV renders an export in the World Bank layout, including the
// trailing comma on every line.
func indicatorCSV(years []string, countries ...country) string {
	var b strings.Builder
	b.WriteString(`"Country Name","Country Code","Indicator Name","Indicator Code"`)
	for _, y := range years {
		fmt.Fprintf(&b, `,"%s"`, y)
	}
	b.WriteString(",\n")
	for _, c := range countries {
		code := strings.ToUpper(c.name[:3])
		fmt.Fprintf(&b, `"%s","%s","Forest area (%% of land area)","AG.LND.FRST.ZS"`, c.name, code)
		for _, v := range c.values {
			fmt.Fprintf(&b, `,"%s"`, v)
		}
		b.WriteString(",\n")
	}
	return b.String()
}

func yearRange(from, to int) []string {
	out := make([]string, 0, to-from+1)
	for y := from; y <= to; y++ {
		out = append(out, fmt.Sprint(y))
	}
	return out
}

func defaultOptions() Options {
	return Options{Stride: 1}
}
