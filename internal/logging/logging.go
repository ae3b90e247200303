// Package logging configures slog for `ark serve` and tags each HTTP request
// with an ID that follows it through the logs.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the process-wide logger for `ark serve`. ARK_DEV_MODE
// selects readable text at debug level for a terminal. Otherwise records are
// JSON at info level for the log collector, each tagged with service=ark.
func Setup(devMode bool) {
	slog.SetDefault(New(os.Stdout, devMode))
}

// New builds the logger Setup installs, writing to w.
func New(w io.Writer, devMode bool) *slog.Logger {
	if devMode {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h).With("service", "ark")
}
