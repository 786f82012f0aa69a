// Package report runs the configured indicator analyses. Each report reads a
// World Bank export, picks one of the cleaned views, prints the requested
// summary, renders its chart and optionally exports the views. Reports run
// sequentially and the first failure ends the run.
package report
