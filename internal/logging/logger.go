package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup initializes the global slog logger writing to stdout and returns the
// handler so it can be combined with other sinks.
func Setup(level, format string) slog.Handler {
	handler := NewStdoutHandler(level, format)
	slog.SetDefault(slog.New(handler))
	return handler
}

func NewStdoutHandler(level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.NewJSONHandler(os.Stdout, opts)
}

func ParseLevel(s string) slog.Level {
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
