package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"partyreg/internal/repository/postgres"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down]",
	Short: "Apply or roll back schema migrations",
	Long: `Apply or roll back the embedded schema migrations.

Examples:
  # Apply everything pending
  partyreg migrate up

  # Roll back the last migration
  partyreg migrate down --steps 1`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var steps int
		switch args[0] {
		case "up":
			steps = migrateSteps
		case "down":
			if migrateSteps <= 0 {
				return fmt.Errorf("down requires --steps > 0")
			}
			steps = -migrateSteps
		default:
			return fmt.Errorf("unknown direction %q, want up or down", args[0])
		}
		if err := postgres.Migrate(cfg.DBUrl, steps); err != nil {
			return err
		}
		logger.Info("migrations applied", "direction", args[0], "steps", migrateSteps)
		return nil
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "number of versions to move (0 means all, up only)")
}
