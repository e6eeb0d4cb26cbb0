package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text handler, verbose turns on debug logs
// (which also enables HTTP message dumps in instrumented clients).
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
