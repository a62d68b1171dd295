package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/carsearch-mcp/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestSetup_FileTarget(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "server.log")
	cfg := &config.Config{
		LogLevel:      "debug",
		LogFile:       logFile,
		LogMaxSizeMB:  1,
		LogMaxBackups: 1,
		LogMaxAgeDays: 1,
	}

	cleanup, err := Setup(cfg)
	require.NoError(t, err)

	slog.Info("listener ready", "addr", ":8765")
	require.NoError(t, cleanup())

	raw, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "listener ready")
}

func TestSetup_StderrDefault(t *testing.T) {
	cleanup, err := Setup(&config.Config{LogLevel: "info"})
	require.NoError(t, err)
	assert.NoError(t, cleanup())
}
