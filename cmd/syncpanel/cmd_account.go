package main

import (
	"fmt"

	"github.com/mmcdole/syncpanel/internal/config"
	"github.com/mmcdole/syncpanel/internal/identity"
	"github.com/spf13/cobra"
)

var accountToken string

var accountCmd = &cobra.Command{
	Use:   "account <email>",
	Short: "Set the sync account",
	Long:  "Writes the sync account to the config file. With --token the account token is stored in the OS keyring.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		cfg.Sync.Account = args[0]
		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		logger.Info("sync account configured", "account", cfg.Sync.Account)

		if accountToken != "" {
			if err := identity.StoreToken(cfg.Sync.KeyringService, cfg.Sync.Account, accountToken); err != nil {
				return err
			}
			fmt.Println("✓ Token stored in keyring")
		}

		fmt.Printf("✓ Sync account set to %s\n", cfg.Sync.Account)
		return nil
	},
}

func init() {
	accountCmd.Flags().StringVar(&accountToken, "token", "", "account token to store in the OS keyring")
}
