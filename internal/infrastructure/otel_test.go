package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbstats/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestOTelInitialization_Disabled checks that a disabled config still yields a usable tracer
func TestOTelInitialization_Disabled(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.TracerProvider)
	require.NotNil(t, providers.Tracer)

	ctx, span := providers.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()

	// Helpers are safe on non-recording spans
	AddSpanEvent(ctx, "ignored", map[string]interface{}{"k": "v"})
	RecordError(ctx, errors.New("ignored"))

	assert.NoError(t, providers.Shutdown(context.Background()))
}

// TestOTelInitialization_StdoutWriter exports spans to the configured writer
func TestOTelInitialization_StdoutWriter(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewOTelConfig(config.TracingConfig{
		Enabled:     true,
		Exporter:    "stdout",
		SampleRatio: 1.0,
	}, &buf)

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	ctx, span := providers.Tracer.Start(context.Background(), "read")
	assert.True(t, span.IsRecording())

	SetSpanAttributes(ctx, map[string]interface{}{
		"report":    "forest",
		"rows":      266,
		"stride":    int64(5),
		"median":    31.4,
		"filtered":  true,
		"countries": []string{"Canada", "Japan"},
		"other":     struct{}{},
	})
	AddSpanEvent(ctx, "columns_dropped", map[string]interface{}{"count": 1})
	RecordError(ctx, errors.New("boom"))
	span.End()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(shutdownCtx))

	out := buf.String()
	assert.Contains(t, out, `"Name": "read"`)
	assert.Contains(t, out, "columns_dropped")
	assert.Contains(t, out, "forest")
	assert.Contains(t, out, "boom")
}

func TestOTelInitialization_UnsupportedExporter(t *testing.T) {
	cfg := NewOTelConfig(config.TracingConfig{Enabled: true, Exporter: "otlp"}, nil)
	_, err := InitializeOTel(cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported trace exporter")
}
