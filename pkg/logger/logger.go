package logger

import (
	"context"

	"go.uber.org/zap"

	"communityhub/pkg/trace"
)

// NewLogger builds the production zap logger. Callers inject the returned
// logger explicitly; nothing in this repo logs through a package global.
func NewLogger() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}

// WithTrace enriches a logger with the trace_id from the context, if present.
func WithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	traceID := trace.FromContext(ctx)
	if traceID != "" {
		return logger.With(zap.String("trace_id", traceID))
	}
	return logger
}
