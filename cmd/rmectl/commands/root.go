package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/config"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/logging"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "rmectl",
	Short: "rmectl runs RateMyEmployer maintenance tasks against the configured database.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logging.Setup(cfg.LogLevel)
	},
	SilenceUsage: true,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB and closeDB are replaced in tests.
var (
	openDB = func() (*gorm.DB, error) {
		if err := database.Connect(cfg); err != nil {
			return nil, err
		}
		return database.DB, nil
	}
	closeDB = func(db *gorm.DB) {
		if err := database.Close(db); err != nil {
			slog.Warn("database close failed", "error", err)
		}
	}
)

// newTable renders to the command's output stream.
func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(cmd.OutOrStdout())
	return t
}
