package report

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wbstats/internal/infrastructure"
)

// Stage names one step of a report run
type Stage string

const (
	StageRead      Stage = "read"
	StageClean     Stage = "clean"
	StageAggregate Stage = "aggregate"
	StagePlot      Stage = "plot"
	StageExport    Stage = "export"
)

// StageStatus represents the outcome of a stage
type StageStatus string

const (
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
	StageStatusSkipped   StageStatus = "skipped"
)

// StageResult records how one stage went
type StageResult struct {
	Stage    Stage
	Status   StageStatus
	Duration time.Duration
	Err      error
}

// runStage executes fn inside a span named after the stage and appends the
// outcome to res
func (r *Runner) runStage(ctx context.Context, res *Result, stage Stage, fn func(ctx context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, string(stage),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("report.name", res.Report),
			attribute.String("report.stage", string(stage)),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	sr := StageResult{Stage: stage, Duration: time.Since(start), Status: StageStatusCompleted, Err: err}

	if err != nil {
		sr.Status = StageStatusFailed
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(r.logger, err).ErrorContext(ctx, "stage failed",
			slog.String("report", res.Report),
			slog.String("stage", string(stage)),
			slog.Duration("duration", sr.Duration))
	} else {
		span.SetStatus(codes.Ok, "")
		r.logger.DebugContext(ctx, "stage completed",
			slog.String("report", res.Report),
			slog.String("stage", string(stage)),
			slog.Duration("duration", sr.Duration))
	}

	res.Stages = append(res.Stages, sr)
	return err
}

// skipStage records a stage that was not run
func (r *Runner) skipStage(res *Result, stage Stage) {
	res.Stages = append(res.Stages, StageResult{Stage: stage, Status: StageStatusSkipped})
}
