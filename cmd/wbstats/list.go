package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"wbstats/internal/files"
	"wbstats/internal/validation"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured reports and whether their sources exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := validation.NewFileValidator(a.logger)

			table := tablewriter.NewWriter(a.stdout)
			table.SetHeader([]string{"Report", "Source", "Skip Rows", "Stride", "View", "Chart", "Status"})
			table.SetAutoFormatHeaders(false)

			good := color.New(color.FgGreen).SprintFunc()
			bad := color.New(color.FgRed).SprintFunc()
			sources := make([]string, 0, len(a.cfg.Reports))
			for _, r := range a.cfg.Reports {
				path := a.paths.ResolveSource(r.Source)
				sources = append(sources, path)

				status := v.CheckSource(path)
				label := string(status)
				if status == validation.SourceOK {
					label = good(label)
				} else {
					label = bad(label)
				}
				table.Append([]string{
					r.Name,
					r.Source,
					strconv.Itoa(r.SkipRows),
					strconv.Itoa(r.Stride),
					r.View,
					strings.TrimSpace(r.Chart.Kind + " " + r.Chart.Output),
					label,
				})
			}
			table.Render()

			if err := v.ValidateInputDirectory(a.paths.DataDir); err != nil {
				color.New(color.FgYellow).Fprintf(a.stdout, "\nData directory: %v\n", err)
				return nil
			}
			found, err := files.NewDiscovery(a.paths.BaseDir).FindIndicatorFiles(a.paths.DataDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "\nData directory: %s (%d indicator files)\n", a.paths.DataDir, len(found))
			if latest, ok := files.GetLatestFile(found); ok {
				fmt.Fprintf(a.stdout, "Latest: %s (%s)\n", latest.Name, latest.ModTime.Format("2006-01-02 15:04"))
			}
			for _, f := range files.Unreferenced(found, sources) {
				fmt.Fprintf(a.stdout, "Not used by any report: %s\n", f.Name)
			}
			return nil
		},
	}
}
