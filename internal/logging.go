package internal

import (
	"io"
	"log/slog"
)

// SetupLogging installs a text slog handler as the process default and
// returns it.
func SetupLogging(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
