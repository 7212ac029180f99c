package logging

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// FromContextOr returns the logger stored in ctx, or fallback when none is set.
func FromContextOr(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return fallback
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return fallback
}

type loggerKey struct{}

// New builds a structured logger. Production gets JSON lines, everything else
// a human readable console writer.
func New(appName, env string) zerolog.Logger {
	if env == "production" {
		return zerolog.New(os.Stdout).With().
			Timestamp().
			Str("app", appName).
			Str("env", env).
			Logger()
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339Nano,
	}
	return zerolog.New(output).With().
		Timestamp().
		Str("app", appName).
		Str("env", env).
		Logger()
}

// IntoContext injects a logger into context for downstream use.
func IntoContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}
