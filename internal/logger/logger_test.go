package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/alkime/sessions/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Level(&config.Config{Env: config.EnvDevelopment}))
	assert.Equal(t, slog.LevelInfo, Level(&config.Config{Env: config.EnvProduction}))
	assert.Equal(t, slog.LevelDebug, Level(&config.Config{Env: config.EnvProduction, LogLevel: "debug"}))
}

func TestSetupLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	lg := SetupLogger(&config.Config{Env: config.EnvProduction}, &buf)

	lg.Debug("hidden")
	lg.Info("Stage finished", "stage", "diarize")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Stage finished", line["msg"])
	assert.Equal(t, "diarize", line["stage"])
}

func TestSetupTextLogger(t *testing.T) {
	var buf bytes.Buffer
	lg := SetupTextLogger(&config.Config{Env: config.EnvDevelopment}, &buf)

	lg.Debug("Runtime ready", "base_url", "http://127.0.0.1:8000/api/v1")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="Runtime ready"`)
}
