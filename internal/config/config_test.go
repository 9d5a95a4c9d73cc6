package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigEmptyFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("{}\n"), 0644))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Sync, cfg.Sync)
	assert.Equal(t, "en-US", cfg.UI.Locale)
}

func TestLoadConfigFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	file := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`sync:
  account: a@example.com
  duration: 5s
  offline: true
ui:
  locale: fr
`)
	require.NoError(t, os.WriteFile(file, data, 0644))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", cfg.Sync.Account)
	assert.Equal(t, 5*time.Second, cfg.Sync.Duration)
	assert.True(t, cfg.Sync.Offline)
	assert.Equal(t, "fr", cfg.UI.Locale)
	// Untouched keys keep their defaults
	assert.Equal(t, "syncpanel", cfg.Sync.KeyringService)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.True(t, cfg.HasAccount())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.HasAccount())
	assert.Equal(t, "en-US", cfg.UI.Locale)
	assert.Equal(t, 2*time.Second, cfg.Sync.Duration)
}

func TestSaveConfigWritesLoadedFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("{}\n"), 0644))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	cfg.Sync.Account = "a@example.com"
	require.NoError(t, SaveConfig(cfg))

	viper.Reset()
	reloaded, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", reloaded.Sync.Account)
	assert.Equal(t, 2*time.Second, reloaded.Sync.Duration)
}

func TestLoadConfigNestedEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("SYNCPANEL_SYNC_OFFLINE", "true")
	t.Setenv("SYNCPANEL_SYNC_ACCOUNT", "env@example.com")
	t.Setenv("SYNCPANEL_SYNC_DURATION", "7s")

	file := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`sync:
  account: file@example.com
`)
	require.NoError(t, os.WriteFile(file, data, 0644))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.True(t, cfg.Sync.Offline)
	assert.Equal(t, "env@example.com", cfg.Sync.Account)
	assert.Equal(t, 7*time.Second, cfg.Sync.Duration)
	assert.Equal(t, "syncpanel", cfg.Sync.KeyringService)
}
