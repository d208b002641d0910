package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNew_ProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production", Level: slog.LevelInfo})
	log.Info("request", "status", 201)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "request", rec["msg"])
	assert.EqualValues(t, 201, rec["status"])
}

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "pretty", Level: slog.LevelInfo})
	log.With("component", "db").WithGroup("req").Info("connected", "id", 7)
	log.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "connected")
	assert.Contains(t, out, "component=db")
	assert.Contains(t, out, "req.id=7")
	assert.NotContains(t, out, "hidden")
}
