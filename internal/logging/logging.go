// Package logging builds the structured logger. The terminal UI owns stdout,
// so records go to a size-rotated file or nowhere.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/natefinch/lumberjack"
	"uwb-radar.klederson.com/internal/config"
)

// New constructs a slog logger for the given settings. The returned closer
// must be closed on shutdown; it is a no-op when logging is disabled.
func New(cfg config.LogSettings) (*slog.Logger, io.Closer) {
	if cfg.File == "" {
		return Discard(), nopCloser{}
	}

	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	return NewWriter(w, cfg.Level, cfg.Format), w
}

// NewWriter constructs a slog logger writing to w.
func NewWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops all records.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
