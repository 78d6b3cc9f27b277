package log

import (
	"context"
	"os"

	"go.uber.org/zap"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

var logger *zap.Logger

func init() {
	if os.Getenv("DEBUG") == "true" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
}

// WithRequestID returns a copy of ctx carrying the request id that WithCtx
// attaches to every log line.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id stored in ctx, or "" if there is none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func WithCtx(ctx context.Context) *zap.Logger {
	if id := RequestID(ctx); id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}

func With(fields ...zap.Field) *zap.Logger {
	return logger.With(fields...)
}

// Replace swaps the process-wide logger and returns a func restoring the
// previous one. Tests use it with zap's observer core.
func Replace(l *zap.Logger) func() {
	prev := logger
	logger = l
	return func() { logger = prev }
}

func Sync() {
	_ = logger.Sync()
}
