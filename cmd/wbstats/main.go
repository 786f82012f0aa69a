// Command wbstats loads World Bank indicator exports for the G7 countries,
// prints their cleaned views and statistics, and renders charts.
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
