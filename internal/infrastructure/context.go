package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// GenerateTraceID returns a fresh run identifier
func GenerateTraceID() string {
	return uuid.New().String()
}

// ContextWithTraceID tags ctx with a new run identifier
func ContextWithTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, GenerateTraceID())
}

// EnsureTraceID keeps an identifier already on ctx and adds one otherwise
func EnsureTraceID(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if GetTraceID(ctx) == "" {
		return ContextWithTraceID(ctx)
	}
	return ctx
}

// WithComponent tags logger with the package doing the work. A nil logger
// falls back to slog.Default.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", component)
}

// WithReport tags logger with the report being run
func WithReport(logger *slog.Logger, report string) *slog.Logger {
	return logger.With("report", report)
}

// WithError adds err to logger; a nil err leaves logger unchanged
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With("error", err.Error())
}
