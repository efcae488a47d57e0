package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production deployments emit JSON for
// the log shipper; everything else gets human-readable text. Debug level is
// enabled outside production.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}

	var handler slog.Handler
	switch {
	case cfg != nil && cfg.LogFormat == "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		if cfg == nil || !cfg.IsProduction() {
			opts.Level = slog.LevelDebug
		}
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
