package game

import (
	"log/slog"

	"github.com/pthm-cable/evosoup/telemetry"
)

// Options configures a simulation beyond its config file.
type Options struct {
	// Logger receives birth, death and window summaries; nil means slog.Default().
	Logger *slog.Logger

	// LogStats logs window stats and bookmarks at Info level.
	LogStats bool

	// OutputDir enables CSV output when non-empty.
	OutputDir string

	// RunID is stamped into output rows; empty generates a new one.
	RunID string

	// StatsCallback, if set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
