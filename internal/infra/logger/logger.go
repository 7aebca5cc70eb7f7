package logger

import (
	"io"
	"log/slog"
	"os"
)

func New(env string) *slog.Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter is New writing to w; dev gets debug level.
func NewWithWriter(env string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", "sitin", "env", env)
}
