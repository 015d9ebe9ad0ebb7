package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/scraper"
)

// scrapeResult is the JSON shape of one scrape run
type scrapeResult struct {
	ScrapedAt time.Time      `json:"scraped_at"`
	Months    []string       `json:"months"`
	Fetched   int            `json:"fetched"`
	Known     int            `json:"known"`
	NewEvents []*event.Event `json:"new_events"`
}

func newScrapeCmd() *cobra.Command {
	var flagMonths int

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch chamber calendar events and merge them into the snapshot",
		Long: `Fetches the chamber of commerce month calendars starting with the current
month, follows every event detail page to its iCal feed, and merges the
parsed events into the local snapshot. Human labels recorded on previously
seen events survive the merge. Exits with code 2 when new events appear.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if flagMonths <= 0 {
				flagMonths = settings.Scraper.MonthsAhead
			}

			store, err := openStorage(settings)
			if err != nil {
				return err
			}
			sc := scraper.New(settings.Scraper.BaseURL)

			result := &scrapeResult{ScrapedAt: time.Now().UTC()}
			var fetched []*event.Event
			now := time.Now()
			for i := 0; i < flagMonths; i++ {
				month := now.AddDate(0, i, 0)
				monthURL := sc.MonthURL(month.Year(), month.Month())
				result.Months = append(result.Months, month.Format("2006-01"))
				verbosef("Fetching %s\n", monthURL)

				events, err := sc.FetchMonth(monthURL)
				if err != nil {
					return fmt.Errorf("fetching %s: %w", monthURL, err)
				}
				fetched = append(fetched, events...)
			}
			result.Fetched = len(fetched)
			verbosef("Fetched %d events\n", len(fetched))

			diff, err := store.MergeAndSave(fetched)
			if err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}
			result.Known = diff.Known
			result.NewEvents = diff.NewEvents

			if format == FormatJSON {
				if err := writeJSON(os.Stdout, result); err != nil {
					return err
				}
			} else {
				if len(diff.NewEvents) == 0 {
					fmt.Println("No new events found.")
				} else {
					writeEventList(os.Stdout, diff.NewEvents, "NEW", flagVerbose)
					fmt.Printf("\nTotal: %d new events (%d already known)\n", len(diff.NewEvents), diff.Known)
				}
			}

			if len(diff.NewEvents) > 0 {
				os.Exit(ExitAttention)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&flagMonths, "months", 0, "How many months to scrape, starting with the current one (default from config)")
	return cmd
}
