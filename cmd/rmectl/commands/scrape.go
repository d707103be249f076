package commands

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/scraper"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var scrapePages *int

func init() {
	scrapePages = scrapeIndeedCmd.Flags().Int("pages", 1, "Number of review pages to fetch (1-5).")
	scrapeCmd.AddCommand(scrapeIndeedCmd)
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetches reviews from external job boards.",
}

var scrapeIndeedCmd = &cobra.Command{
	Use:   "indeed <company> [--pages <n>]",
	Short: "Scrapes Indeed reviews for a company and prints them.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if *scrapePages < 1 || *scrapePages > 5 {
			return fmt.Errorf("--pages must be between 1 and 5")
		}

		s := scraper.NewIndeedScraper(cfg.ScraperBaseURL, cfg.ScraperDelay)
		reviews, err := s.Scrape(cmd.Context(), args[0], *scrapePages)
		if err != nil {
			return err
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"Rating", "Title", "Job title", "Date", "Pros", "Cons"})
		for _, r := range reviews {
			t.AppendRow(table.Row{
				r.Rating,
				text.Trim(r.Title, 40),
				text.Trim(r.JobTitle, 30),
				r.Date,
				text.Trim(r.Pros, 40),
				text.Trim(r.Cons, 40),
			})
		}
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d reviews", len(reviews))})
		t.Render()
		return nil
	},
}
