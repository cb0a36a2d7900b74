package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger is the process-wide structured logger. It is a no-op until
// InitLogger runs so that packages can log from tests without setup.
var Logger = zap.NewNop()

// InitLogger builds the production JSON logger at the given level
// ("debug", "info", "warn", "error").
func InitLogger(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	Logger = logger

	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger enriched with trace_id and span_id
// fields from the active OTel span in ctx, plus session_id when ctx carries
// one.
//
// ctx itself is attached as zap.Any("context", ctx): the otelzap bridge
// picks up any field holding a context.Context and emits the log record
// with it, so the exported OTLP record carries the native TraceID/SpanID.
// The trace_id / span_id strings keep stdout JSON greppable.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	logger := Logger
	if id := SessionIDFromContext(ctx); id != "" {
		logger = logger.With(zap.String("session_id", id))
	}

	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return logger
	}

	return logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
