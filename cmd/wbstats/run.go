package main

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wbstats/internal/config"
	"wbstats/internal/exporter"
	"wbstats/internal/report"
	"wbstats/internal/validation"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		outDir  string
		export  string
		noChart bool
	)

	cmd := &cobra.Command{
		Use:   "run [report...]",
		Short: "Run the named reports, or every configured report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			formats, err := exporter.ParseFormats(export)
			if err != nil {
				return err
			}
			reports, err := a.selectReports(args)
			if err != nil {
				return err
			}

			v := validation.NewFileValidator(a.logger)
			if !noChart {
				dir := outDir
				if dir == "" {
					dir = a.paths.ChartsDir
				}
				if err := v.ValidateOutputDirectory(dir); err != nil {
					return err
				}
			}
			if len(formats) > 0 {
				if err := v.ValidateOutputDirectory(a.paths.ExportsDir); err != nil {
					return err
				}
			}

			runner := report.NewRunner(a.paths, a.tracer(), report.NewPrinter(a.stdout), a.logger)
			results, err := runner.RunAll(ctx, reports, report.RunOptions{
				ChartDir: outDir,
				Formats:  formats,
				NoChart:  noChart,
			})

			done := color.New(color.FgGreen)
			for _, res := range results {
				if res.ChartPath != "" {
					done.Fprintf(a.stderr, "%s: chart saved to %s\n", res.Report, res.ChartPath)
				}
				for _, p := range res.Exports {
					done.Fprintf(a.stderr, "%s: exported %s\n", res.Report, p)
				}
			}
			if err != nil {
				return err
			}

			a.logger.InfoContext(ctx, "run completed", slog.Int("reports", len(results)))
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "directory for rendered charts (default: configured charts dir)")
	cmd.Flags().StringVar(&export, "export", "", "export views as csv, xlsx or both (comma separated)")
	cmd.Flags().BoolVar(&noChart, "no-chart", false, "skip chart rendering")
	return cmd
}

// selectReports resolves report names against the configuration; no names
// selects every report in configured order
func (a *app) selectReports(names []string) ([]config.ReportConfig, error) {
	if len(names) == 0 {
		return a.cfg.Reports, nil
	}
	out := make([]config.ReportConfig, 0, len(names))
	for _, name := range names {
		rc, err := a.cfg.Report(name)
		if err != nil {
			return nil, err
		}
		out = append(out, *rc)
	}
	return out, nil
}
