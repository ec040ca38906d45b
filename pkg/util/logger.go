// Package util carries small shared helpers for the Quanty backend.
package util

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog logger. Development gets a readable
// text handler at debug level; every other environment logs JSON at info so
// the API and worker emit the same machine-parseable stream.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	if env == "development" {
		opts.Level = slog.LevelDebug
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
