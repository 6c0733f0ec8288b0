package util

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a debug text logger in development and an info JSON
// logger everywhere else.
func NewLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env).With("service", "lawconnect")
}

func newLogger(w io.Writer, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	if env == "development" {
		opts.Level = slog.LevelDebug
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
