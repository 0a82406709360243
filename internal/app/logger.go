package app

import (
	"io"
	"log/slog"
)

// logLevels maps the config's level strings to slog levels. An unknown
// string falls back to info so a typo in the config dims the logs instead
// of silencing them.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the App's isolated logger from its config; it never
// touches the global default. The registry emits structured pairs (type,
// path, load_id), so JSON is the machine-consumption format and text the
// human one.
func newLogger(cfg *Config, outW io.Writer) *slog.Logger {
	level, ok := logLevels[cfg.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
