// Package logger provides structured logging functionality for the
// application using Go's standard library log/slog package, plus helpers
// for carrying a request-scoped logger through context.Context.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// contextKey is the private type for context keys defined in this package.
type contextKey int

// loggerKey is the context key under which a request-scoped logger travels.
const loggerKey contextKey = iota

// Setup initializes and configures the application's logging system based on
// the provided log level. It creates a structured JSON logger writing to
// stdout and sets it as the default logger for the application.
func Setup(logLevel string) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo

		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", logLevel,
			"default_level", "info")
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// WithLogger returns a copy of ctx carrying the given logger. Request
// middleware uses this to attach per-request attributes (trace ID, user ID)
// once, so downstream layers inherit them.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from the context, falling back to the
// process-wide default logger when none is attached.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger from the context, falling back
// to the provided component logger (not the global default) when none is
// attached. Store and service code uses this so per-component attributes
// survive even outside a request.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	if def != nil {
		return def
	}
	return slog.Default()
}
