package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Sync    SyncConfig    `mapstructure:"sync"`
	UI      UIConfig      `mapstructure:"ui"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SyncConfig holds sync account and engine configuration
type SyncConfig struct {
	Account        string        `mapstructure:"account"`         // Email of the sync account
	KeyringService string        `mapstructure:"keyring_service"` // Keyring service holding the account token
	Duration       time.Duration `mapstructure:"duration"`        // How long a simulated sync takes
	Offline        bool          `mapstructure:"offline"`         // Pretend the network is down
}

// UIConfig holds UI configuration
type UIConfig struct {
	Locale string `mapstructure:"locale"`
}

// StorageConfig holds settings database configuration
type StorageConfig struct {
	Path string `mapstructure:"path"` // Directory for the settings db, empty = memory only
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Sync: SyncConfig{
			KeyringService: "syncpanel",
			Duration:       2 * time.Second,
		},
		UI: UIConfig{
			Locale: "en-US",
		},
		Storage: StorageConfig{
			Path: defaultDataPath(),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "syncpanel.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "syncpanel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "syncpanel")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "syncpanel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "syncpanel")
	}
}

// LoadConfig loads configuration from file and environment.
// An explicit file overrides the default search path.
func LoadConfig(file string) (*Config, error) {
	cfg := DefaultConfig()

	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(defaultConfigPath())
		viper.AddConfigPath(".")
	}

	// Registered defaults make every key visible to Unmarshal, so nested keys
	// can be overridden from the environment (SYNCPANEL_SYNC_OFFLINE)
	for k, v := range values(cfg) {
		viper.SetDefault(k, v)
	}
	viper.SetEnvPrefix("SYNCPANEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Watch reloads the configuration whenever the config file changes
func Watch(onChange func(*Config)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg := DefaultConfig()
		if err := viper.Unmarshal(cfg); err != nil {
			slog.Warn("config reload failed", "file", e.Name, "error", err)
			return
		}
		slog.Info("config reloaded", "file", e.Name, "op", e.Op.String())
		onChange(cfg)
	})
	viper.WatchConfig()
}

// SaveConfig saves the current configuration to the loaded config file, or
// to the default location when none was loaded
func SaveConfig(cfg *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	for k, v := range values(cfg) {
		viper.Set(k, v)
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// values flattens cfg into viper keys
func values(cfg *Config) map[string]any {
	return map[string]any{
		"sync.account":         cfg.Sync.Account,
		"sync.keyring_service": cfg.Sync.KeyringService,
		"sync.duration":        cfg.Sync.Duration.String(),
		"sync.offline":         cfg.Sync.Offline,
		"ui.locale":            cfg.UI.Locale,
		"storage.path":         cfg.Storage.Path,
		"logging.file":         cfg.Logging.File,
		"logging.level":        cfg.Logging.Level,
	}
}

// HasAccount returns true if a sync account is configured
func (c *Config) HasAccount() bool {
	return c.Sync.Account != ""
}
