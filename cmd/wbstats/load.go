package main

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wbstats/internal/dataprocessing"
	"wbstats/internal/report"
)

func newLoadCmd(a *app) *cobra.Command {
	var (
		source string
		opts   dataprocessing.Options
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load one indicator export and print both cleaned views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			loader := dataprocessing.NewLoader(a.logger, dataprocessing.DefaultSchema())
			views, err := loader.ReadFile(ctx, a.paths.ResolveSource(source), opts)
			if err != nil {
				return err
			}

			if views.Indicator != "" {
				color.New(color.FgCyan).Fprintf(a.stdout, "%s\n\n", views.Indicator)
			}
			report.NewPrinter(a.stdout).Views(views.RowComplete, views.ColumnComplete)
			fmt.Fprintf(a.stdout, "%d years, %d countries\n", views.Years.Nrow(), views.Years.Ncountries())

			a.logger.InfoContext(ctx, "load completed",
				slog.String("source", source),
				slog.Int("row_complete_years", views.RowComplete.Nrow()),
				slog.Int("column_complete_countries", views.ColumnComplete.Ncountries()))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "indicator CSV (absolute, or relative to the data dir)")
	cmd.Flags().IntVar(&opts.SkipRows, "skip-rows", 0, "lines to skip before the header")
	cmd.Flags().IntVar(&opts.Stride, "stride", 1, "keep every Nth year column")
	cmd.Flags().StringSliceVar(&opts.Countries, "countries", nil, "countries to keep, in order (comma separated)")
	cmd.Flags().StringVar(&opts.FirstYear, "first-year", "", "first year to keep")
	cmd.Flags().StringVar(&opts.LastYear, "last-year", "", "last year to keep")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
