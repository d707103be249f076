package commands

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/services"
	"github.com/spf13/cobra"
)

var migrateSeedFlags *bool

func init() {
	migrateSeedFlags = migrateCmd.Flags().Bool("seed-flags", true, "Insert default feature flags that do not exist yet.")
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate [--seed-flags=false]",
	Short: "Creates or updates every table the API uses.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		if err := database.Migrate(db); err != nil {
			return err
		}
		slog.Info("migration complete", "models", len(database.AllModels()))

		if *migrateSeedFlags {
			if err := services.NewFlagService(db).SeedDefaults(); err != nil {
				return err
			}
			slog.Info("feature flag defaults seeded", "flags", len(services.DefaultFlags))
		}
		return nil
	},
}
