package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/app"
	"github.com/rsharan/lernix/internal/auth"
	"github.com/rsharan/lernix/internal/config"
	"github.com/rsharan/lernix/internal/screens"
	"github.com/rsharan/lernix/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lernix",
	Short: "Terminal client for the Lernix learning platform",
	Long:  "Lernix: browse courses, read lessons, take assessments, and solve coding exercises from your terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL (overrides LERNIX_API_URL)")

	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
}

// runApp wires configuration, the session, the API client, and the local
// activity log, then launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if u, _ := cmd.Flags().GetString("api-url"); u != "" {
		cfg.BaseURL = u
	}

	sessionStore, err := auth.NewFileStore(cfg.SessionPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	manager := auth.NewManager(sessionStore)
	client := api.New(cfg.BaseURL, cfg.RequestTimeout, manager)
	manager.Bind(client)

	if err := manager.Restore(); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	if err := config.EnsureDir(cfg.HistoryPath); err != nil {
		return fmt.Errorf("prepare history path: %w", err)
	}
	log, err := store.Open(cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	defer log.Close()

	return app.Run(screens.Deps{
		API:  client,
		Auth: manager,
		Log:  log,
	})
}
