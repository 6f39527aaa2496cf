package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, DebugLevel, LevelFromString("DEBUG"))
	assert.Equal(t, WarnLevel, LevelFromString("warning"))
	assert.Equal(t, ErrorLevel, LevelFromString("error"))
	assert.Equal(t, InfoLevel, LevelFromString("chatty"))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PARAMTEST_LOG_LEVEL", "debug")
	t.Setenv("PARAMTEST_LOG_FORMAT", "JSON")
	t.Setenv("PARAMTEST_LOG_CALLER", "true")

	cfg := ConfigFromEnv()
	assert.Equal(t, DebugLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Caller)
	assert.False(t, cfg.IsDevelopment())
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer

	log, err := New(&Config{Level: InfoLevel, Format: "json"}, &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("generated", zap.String("file", "cases_paramtest_test.go"), zap.Int("cases", 2))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "generated", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "cases_paramtest_test.go", entry["file"])
	assert.InDelta(t, 2, entry["cases"], 0)
	assert.Contains(t, entry, "timestamp")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer

	log, err := New(&Config{Level: WarnLevel, Format: "console"}, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("generator never instantiated", zap.String("generator", "odd"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "generator never instantiated")
	assert.Contains(t, out, `"generator": "odd"`)
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil, &bytes.Buffer{})
	require.Error(t, err)
}
