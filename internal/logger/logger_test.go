package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/cartconsole/internal/config"
)

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log.Debug("hidden")
	log.With("op", "console.Create").WithGroup("req").Info("shopcart request failed", "status", 404)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "shopcart request failed")
	assert.Contains(t, out, "op=console.Create")
	assert.Contains(t, out, "req.status=404")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestLocalLoggerLeavesColorDetectionAlone(t *testing.T) {
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })

	var buf bytes.Buffer
	log := New(config.EnvLocal, &buf, &buf)
	log.Warn("shopcart request failed", "status", 502)

	assert.True(t, color.NoColor, "building a logger must not force colors on")
	assert.Contains(t, buf.String(), "WARN: shopcart request failed status=502")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestNewRoutesErrorsToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log := New(config.EnvProd, &stdout, &stderr)

	log.Debug("not at info level")
	log.Info("server started", "addr", ":8081")
	log.Error("server error", "error", "boom")

	require.Equal(t, 1, strings.Count(stdout.String(), "\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &entry))
	assert.Equal(t, "server started", entry["msg"])

	assert.Contains(t, stderr.String(), `"msg":"server error"`)
	assert.NotContains(t, stdout.String(), "server error")
}

func TestNewDevUsesText(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log := New(config.EnvDev, &stdout, &stderr)

	log.Debug("request", "path", "/")
	assert.Contains(t, stdout.String(), "level=DEBUG")
	assert.Contains(t, stdout.String(), "path=/")
	assert.Empty(t, stderr.String())
}

func TestSetupWritesLogFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	path := filepath.Join(t.TempDir(), "console.log")
	log, cleanup, err := Setup(config.EnvProd, path)
	require.NoError(t, err)

	log.Info("written to file")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
