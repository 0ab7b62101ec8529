// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup creates a text-handler slog.Logger writing to w.
// Debug lowers the level so per-request logging becomes visible.
func Setup(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// SetupDefault installs the logger as the global default.
// The CLI logs to stderr so stdout stays reserved for command output.
func SetupDefault(debug bool) {
	slog.SetDefault(Setup(os.Stderr, debug))
}
