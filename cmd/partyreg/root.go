package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"partyreg/config"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "partyreg",
	Short:         "Party event registration service",
	Long:          `partyreg serves public registration forms for parties and the admin dashboard that manages their registrations.`,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = config.NewLogger()
		slog.SetDefault(logger)
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}
