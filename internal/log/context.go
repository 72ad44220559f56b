package log

import (
	"context"
	"log/slog"
)

// ContextKey is this package's typed key namespace.
type ContextKey string

// LoggerContextKey carries the active logger.
const LoggerContextKey ContextKey = "logger"

// IntoContext returns a context carrying the logger.
func IntoContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the context, falling back to the
// process default when none was attached.
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(LoggerContextKey).(*Logger)
	if !ok {
		return &Logger{Logger: slog.Default(), component: ComponentApp}
	}
	return logger
}
