package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rsharan/lernix/internal/auth"
	"github.com/rsharan/lernix/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sessionStore, err := auth.NewFileStore(cfg.SessionPath)
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		if err := sessionStore.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}

		fmt.Println("Signed out.")
		return nil
	},
}
