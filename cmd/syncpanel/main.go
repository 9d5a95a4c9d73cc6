package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/syncpanel/internal/config"
	"github.com/mmcdole/syncpanel/internal/identity"
	"github.com/mmcdole/syncpanel/internal/l10n"
	"github.com/mmcdole/syncpanel/internal/log"
	"github.com/mmcdole/syncpanel/internal/store"
	"github.com/mmcdole/syncpanel/internal/syncmgr"
	"github.com/mmcdole/syncpanel/internal/tui"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:           "syncpanel",
	Short:         "Manage browser sync from the terminal",
	Long:          "syncpanel lets you sign in to sync, choose the synced collections and trigger a sync.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/syncpanel/config.yaml)")
	rootCmd.SetVersionTemplate("syncpanel {{.Version}}\n")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(accountCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and installs the logger
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// File logging failures are not fatal; Setup falls back to discarding
	logger, err := log.Setup(&cfg.Logging, Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	return cfg, logger, nil
}

func run() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	logger.Info("starting syncpanel")

	settings, err := store.NewSettingsStore(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}
	defer settings.Close()

	bridge := syncmgr.NewManager(syncmgr.Options{
		Account:  cfg.Sync.Account,
		Duration: cfg.Sync.Duration,
		Offline:  cfg.Sync.Offline,
		Records:  settings,
		Logger:   log.Component(logger, "syncmgr"),
	})
	defer bridge.Close()

	ident := identity.NewService(cfg.Sync.KeyringService, cfg.Sync.Account, log.Component(logger, "identity"))

	bundle, err := l10n.New(cfg.UI.Locale)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	logger.Info("translations loaded", "locale", bundle.Locale(), "requested", cfg.UI.Locale)

	// Account and network changes apply without a restart
	config.Watch(func(next *config.Config) {
		bridge.SetOffline(next.Sync.Offline)
		bridge.SetAccount(next.Sync.Account)
		ident.SetAccount(next.Sync.Account)
	})

	panel := tui.NewPanel(tui.Services{
		Bridge:   bridge,
		Settings: settings,
		L10n:     bundle,
		Identity: ident,
		Bus:      tui.NewEventBus(64),
		Logger:   log.Component(logger, "panel"),
	})
	model := tui.NewModel(panel, bundle)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
