package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"uwb-radar.klederson.com/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "info", "json")

	log.Debug("hidden")
	log.Info("endpoint found", "endpoint", "Pixel|1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "endpoint found", rec["msg"])
	assert.Equal(t, "Pixel|1", rec["endpoint"])
}

func TestNewWithoutFileDiscards(t *testing.T) {
	log, closer := New(config.LogSettings{Level: "debug"})
	defer closer.Close()

	assert.False(t, log.Enabled(t.Context(), slog.LevelError))
}

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uwb.log")
	log, closer := New(config.LogSettings{File: path, Level: "info", MaxSizeMB: 1})

	log.Info("ranging started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ranging started")
}
