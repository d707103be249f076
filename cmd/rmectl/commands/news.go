package commands

import (
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/news"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	newsCmd.AddCommand(newsIngestCmd)
	newsCmd.AddCommand(newsFeedsCmd)
	rootCmd.AddCommand(newsCmd)
}

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Manages the company news feeds.",
}

var newsFeedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Lists the configured news feeds.",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := news.LoadFromFile(cfg.NewsFeedsPath)
		if err != nil {
			return err
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"Name", "Category", "Max items", "Timeout (s)", "Disabled", "URL"})
		for _, f := range registry.All() {
			t.AppendRow(table.Row{f.Name, f.Category, f.MaxItems, f.Timeout, f.Disabled, f.URL})
		}
		t.Render()
		return nil
	},
}

var newsIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetches every enabled feed once and stores new articles.",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := news.LoadFromFile(cfg.NewsFeedsPath)
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		res, err := news.NewIngester(db, registry).Run(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"Feeds", "Items", "Stored", "Errors", "Duration"})
		t.AppendRow(table.Row{res.Feeds, res.Items, res.Stored, len(res.Errors), res.Duration})
		t.Render()
		for _, e := range res.Errors {
			cmd.PrintErrln(e)
		}
		return nil
	},
}
