// Package telemetry holds the venue's observability plumbing: the slog
// logger, the prometheus metric vars, and the otel tracer. Everything here
// is process-global; components derive their own loggers with Component.
package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// TracingHandler emits JSON log records stamped with the trace and span of
// the request that produced them. Events dispatched outside a span (the
// back-test CLI, the NATS feed) log without the trace fields.
type TracingHandler struct {
	handler slog.Handler
}

// NewTracingHandler wraps a JSON handler writing to w at the given level.
func NewTracingHandler(w io.Writer, level slog.Level) *TracingHandler {
	return &TracingHandler{
		handler: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
	}
}

func (h *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	return h.handler.Handle(ctx, record)
}

func (h *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{handler: h.handler.WithGroup(name)}
}

// Logger is the process-wide logger, tagged with the service name.
var Logger *slog.Logger

// InitLogger builds the service logger and installs it as the slog
// default, so venue components that never touch this package still log
// through the tracing handler.
func InitLogger(serviceName string) {
	Logger = slog.New(NewTracingHandler(os.Stdout, slog.LevelInfo)).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(Logger)
}

// Component derives a child logger tagged for one venue component, the
// convention every consumer and the feed follow.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", name))
}
