package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/syncpanel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func restoreDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestSetupWritesTaggedJSON(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "nested", "panel.log")

	logger, err := Setup(&config.LoggingConfig{File: path, Level: "debug"}, "1.2.3")
	require.NoError(t, err)

	Component(logger, "syncmgr").Debug("hello", "state", "enabled")
	slog.Info("through default")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, `"state":"enabled"`)
	assert.Contains(t, out, `"component":"syncmgr"`)
	assert.Contains(t, out, `"app":"syncpanel"`)
	assert.Contains(t, out, `"version":"1.2.3"`)
	assert.Contains(t, out, `"msg":"through default"`)
}

func TestSetupRespectsLevel(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "panel.log")

	logger, err := Setup(&config.LoggingConfig{File: path, Level: "warn"}, "dev")
	require.NoError(t, err)
	logger.Info("dropped")
	logger.Warn("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestSetupFallsBackToDiscard(t *testing.T) {
	restoreDefault(t)
	dir := t.TempDir()
	// A directory cannot be opened as the log file
	logger, err := Setup(&config.LoggingConfig{File: dir, Level: "info"}, "dev")

	assert.Error(t, err)
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
	assert.Same(t, logger, slog.Default())
}
