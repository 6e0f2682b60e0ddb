package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns the process logger configured from GO_ENV and LOG_LEVEL.
// Production logs JSON; every other environment logs text.
func NewLogger() *slog.Logger {
	return newLogger(os.Getenv("GO_ENV"), os.Getenv("LOG_LEVEL"), os.Stdout)
}

func newLogger(env, level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("service", "partyreg")
}

// parseLevel accepts debug, info, warn (or warning) and error. Anything else is info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
