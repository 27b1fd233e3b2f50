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
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = "warn"
	cfg.Output = &buf

	logger, cleanup, err := New(cfg)
	require.NoError(t, err)
	defer cleanup()

	logger.Info("hidden")
	logger.Warn("shown", slog.Int("count", 2))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "count=2")
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"
	cfg.Output = &buf

	logger, cleanup, err := New(cfg)
	require.NoError(t, err)
	defer cleanup()

	logger.Info("loaded", slog.String("set", "events"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "loaded", line["msg"])
	assert.Equal(t, "events", line["set"])
}

func TestNew_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "server.log")
	cfg := DefaultConfig()
	cfg.FilePath = path

	logger, cleanup, err := New(cfg)
	require.NoError(t, err)

	logger.Info("to file")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
