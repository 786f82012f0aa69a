package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"wbstats/internal/config"
	"wbstats/internal/infrastructure"
)

// app carries what every subcommand needs once the root has set up
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg       *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	otel      *infrastructure.OTelProviders
	traceFile *os.File
}

// execute runs the CLI and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.close(ctx)

	if err != nil {
		if a.logger != nil {
			infrastructure.WithError(a.logger, err).ErrorContext(ctx, "command failed")
		}
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "World Bank indicator statistics for the G7 countries",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, configFile)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: wbstats.yaml or configs/wbstats.yaml)")

	root.AddCommand(newRunCmd(a), newListCmd(a), newLoadCmd(a))
	return root
}

// setup loads the configuration and brings up paths, logging and tracing
func (a *app) setup(cmd *cobra.Command, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	logCfg := cfg.Logging
	logCfg.FilePath = paths.GetLogPath(logCfg.FilePath)
	logger, err := infrastructure.InstallLogger(logCfg, a.stderr)
	if err != nil {
		return err
	}

	var traceOut io.Writer
	if cfg.Tracing.Enabled && cfg.Tracing.Exporter != "none" {
		f, err := os.OpenFile(paths.GetLogPath(cfg.Tracing.FilePath), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open trace file: %w", err)
		}
		a.traceFile = f
		traceOut = f
	}
	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Tracing, traceOut), logger)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.paths = paths
	a.logger = logger
	a.otel = providers

	ctx := infrastructure.EnsureTraceID(cmd.Context())
	cmd.SetContext(ctx)

	logger.InfoContext(ctx, "wbstats starting",
		slog.String("command", cmd.Name()),
		slog.String("version", config.AppVersion),
		slog.Int("reports", len(cfg.Reports)))
	paths.LogPathResolution(logger)
	return nil
}

func (a *app) tracer() trace.Tracer {
	if a.otel == nil {
		return nil
	}
	return a.otel.Tracer
}

// close flushes spans and releases the trace and log files
func (a *app) close(ctx context.Context) {
	if a.otel != nil {
		if err := a.otel.Shutdown(ctx); err != nil && a.logger != nil {
			a.logger.WarnContext(ctx, "tracing shutdown failed", slog.String("error", err.Error()))
		}
	}
	if a.traceFile != nil {
		a.traceFile.Close()
	}
	infrastructure.CloseLogFile()
}
