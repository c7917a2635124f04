package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/storefront-gate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "info"}, &buf)

	logger.Info("otp issued", "user_id", "admin1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "otp issued", entry["msg"])
	assert.Equal(t, "admin1", entry["user_id"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "info", Format: "TEXT"}, &buf)

	logger.Info("proxy response", "status", 200)

	assert.Contains(t, buf.String(), "msg=\"proxy response\"")
	assert.Contains(t, buf.String(), "status=200")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "warn", Format: "text"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
