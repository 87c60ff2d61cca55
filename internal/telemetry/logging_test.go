package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestHandlerStampsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTracingHandler(&buf, slog.LevelInfo))

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	logger.InfoContext(ctx, "order created", slog.Int64("order_id", 1))

	entry := logLine(t, &buf)
	assert.Equal(t, spanCtx.TraceID().String(), entry["trace_id"])
	assert.Equal(t, spanCtx.SpanID().String(), entry["span_id"])
	assert.Equal(t, "order created", entry["msg"])
}

func TestHandlerWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTracingHandler(&buf, slog.LevelInfo))

	// Back-test runs log outside any span; no trace fields appear.
	logger.Info("tick applied")

	entry := logLine(t, &buf)
	assert.NotContains(t, entry, "trace_id")
	assert.NotContains(t, entry, "span_id")
}

func TestHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTracingHandler(&buf, slog.LevelWarn))

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestComponentTagsLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(NewTracingHandler(&buf, slog.LevelInfo))

	Component(base, "orderbook").Info("order created")

	entry := logLine(t, &buf)
	assert.Equal(t, "orderbook", entry["component"])
}

func TestComponentNilFallsBackToDefault(t *testing.T) {
	assert.NotNil(t, Component(nil, "feed"))
}
