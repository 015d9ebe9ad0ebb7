package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/report"
	"github.com/envisionperdido/perdido-events/internal/scraper"
)

func newPipelineCmd() *cobra.Command {
	var (
		flagSkipUpload bool
		flagSkipMail   bool
	)

	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run the full workflow: scrape, classify, report, upload",
		Long: `Runs the whole calendar workflow in one shot: scrapes the configured
months from the chamber site, classifies the upcoming events, mails the
review report, and uploads the community events to WordPress as drafts.
Intended for cron.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := openStorage(settings)
			if err != nil {
				return err
			}

			// scrape
			sc := scraper.New(settings.Scraper.BaseURL)
			var fetched []*event.Event
			now := time.Now()
			for i := 0; i < settings.Scraper.MonthsAhead; i++ {
				month := now.AddDate(0, i, 0)
				monthURL := sc.MonthURL(month.Year(), month.Month())
				verbosef("Fetching %s\n", monthURL)
				events, err := sc.FetchMonth(monthURL)
				if err != nil {
					return fmt.Errorf("fetching %s: %w", monthURL, err)
				}
				fetched = append(fetched, events...)
			}
			diff, err := store.MergeAndSave(fetched)
			if err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}
			fmt.Printf("Scraped %d events, %d new\n", len(fetched), len(diff.NewEvents))

			// classify
			result, err := classifyStored(settings, false, nil)
			if err != nil {
				return err
			}
			summary := report.Build(result)
			fmt.Printf("Classified %d events: %d community, %d need review, %d filtered out\n",
				summary.Total, len(summary.CommunityConfident), len(summary.CommunityReview), len(summary.NonCommunity))

			// report
			if !flagSkipMail && settings.Mail.ServiceURL != "" {
				mailer, err := report.NewMailer(settings.Mail.ServiceURL)
				if err != nil {
					return err
				}
				if err := mailer.Send("Community Calendar Review Report", summary.String()); err != nil {
					return fmt.Errorf("mailing report: %w", err)
				}
				fmt.Println("Review report mailed")
			}

			// upload
			if flagSkipUpload {
				return nil
			}
			outcomes := communityOutcomes(result)
			if len(outcomes) == 0 {
				fmt.Println("No community events to upload")
				return nil
			}
			client, err := wordpressClient(settings)
			if err != nil {
				return err
			}
			uploaded := client.Upload(outcomes)
			fmt.Printf("Uploaded %d community events as drafts\n", len(uploaded.Created))
			if len(uploaded.Failed) > 0 {
				fmt.Printf("Failed: %d events (%v)\n", len(uploaded.Failed), uploaded.Failed)
				os.Exit(ExitError)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagSkipUpload, "skip-upload", false, "Stop after the report, do not touch WordPress")
	cmd.Flags().BoolVar(&flagSkipMail, "skip-mail", false, "Do not mail the review report")
	return cmd
}
