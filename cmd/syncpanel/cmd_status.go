package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/syncpanel/internal/domain"
	"github.com/mmcdole/syncpanel/internal/store"
	"github.com/mmcdole/syncpanel/internal/syncmgr"
	"github.com/mmcdole/syncpanel/internal/tui/styles"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}

		settings, err := store.NewSettingsStore(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to open settings store: %w", err)
		}
		defer settings.Close()

		styled := term.IsTerminal(int(os.Stdout.Fd()))
		render := func(style lipgloss.Style, s string) string {
			if !styled {
				return s
			}
			return style.Render(s)
		}

		fmt.Println(render(styles.TitleStyle, "SYNC"))
		info, last, ok := syncmgr.LoadState(settings)
		switch {
		case !ok:
			fmt.Printf("  state:    %s\n", domain.SyncDisabled)
		default:
			state := string(info.State)
			if info.State == domain.SyncEnabled {
				state = render(styles.SuccessStyle, state)
			}
			fmt.Printf("  state:    %s\n", state)
			fmt.Printf("  user:     %s\n", render(styles.AccentStyle, info.User))
			if !last.IsZero() {
				fmt.Printf("  last:     %s\n", last.Local().Format(time.DateTime))
			}
		}
		if cfg.HasAccount() {
			fmt.Printf("  account:  %s\n", cfg.Sync.Account)
		} else {
			fmt.Println(render(styles.ErrorStyle, "  no account configured (run 'syncpanel account <email>')"))
		}
		fmt.Println()

		fmt.Println(render(styles.TitleStyle, "COLLECTIONS"))
		for _, key := range domain.CollectionSettings {
			enabled := true
			settings.Get(key, &enabled)
			fmt.Printf("  %s %s\n", styles.Checkbox(enabled), key)
		}
		return nil
	},
}
