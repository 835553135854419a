package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns the server logger: JSON records on stdout.
func New(level string) *slog.Logger {
	return NewWriter(os.Stdout, level, "json")
}

// NewWriter returns a logger writing to w. The CLI uses the text format on
// stderr so stdout carries only the rendered result.
func NewWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("app", "textlens")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
