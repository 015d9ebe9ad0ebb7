package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/envisionperdido/perdido-events/internal/config"
	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/pipeline"
	"github.com/envisionperdido/perdido-events/internal/wordpress"
)

// communityOutcomes filters a run down to what belongs on the calendar:
// every community-classified event, review-flagged ones included
func communityOutcomes(result *pipeline.Result) []pipeline.Outcome {
	out := make([]pipeline.Outcome, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		if o.Class == event.Community {
			out = append(out, o)
		}
	}
	return out
}

// wordpressClient builds a client from settings, validating credentials exist
func wordpressClient(settings *config.Settings) (*wordpress.Client, error) {
	wp := settings.WordPress
	if wp.SiteURL == "" || wp.Username == "" || wp.AppPassword == "" {
		return nil, fmt.Errorf("WordPress is not configured; set wordpress.siteurl, wordpress.username and wordpress.apppassword")
	}
	return wordpress.New(wp.SiteURL, wp.Username, wp.AppPassword), nil
}

func newUploadCmd() *cobra.Command {
	var (
		flagDryRun  bool
		flagPublish bool
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload community events to the WordPress calendar as drafts",
		Long: `Classifies the upcoming events and uploads the community ones to the
EventON calendar as draft posts. Review-flagged events upload with a
[REVIEW] title marker so they are visible but unmistakable. With
--publish the created drafts are immediately published.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			result, err := classifyStored(settings, false, nil)
			if err != nil {
				return err
			}
			outcomes := communityOutcomes(result)
			if len(outcomes) == 0 {
				fmt.Println("No community events to upload.")
				return nil
			}

			if flagDryRun {
				fmt.Printf("Would upload %d community events:\n", len(outcomes))
				for _, o := range outcomes {
					marker := ""
					if o.Review {
						marker = " [REVIEW]"
					}
					fmt.Printf("  %s%s (confidence %.0f%%)\n", o.Event.Title, marker, o.Confidence*100)
				}
				return nil
			}

			client, err := wordpressClient(settings)
			if err != nil {
				return err
			}
			name, err := client.TestConnection()
			if err != nil {
				return err
			}
			verbosef("Connected to WordPress as %s\n", name)

			uploaded := client.Upload(outcomes)
			if flagPublish && len(uploaded.Created) > 0 {
				n, err := client.Publish(uploaded.Created)
				if err != nil {
					return fmt.Errorf("published %d of %d: %w", n, len(uploaded.Created), err)
				}
				verbosef("Published %d events\n", n)
			}

			if format == FormatJSON {
				return writeJSON(os.Stdout, uploaded)
			}
			fmt.Printf("Uploaded %d events as drafts", len(uploaded.Created))
			if flagPublish {
				fmt.Print(" and published them")
			}
			fmt.Println()
			if len(uploaded.Failed) > 0 {
				fmt.Printf("Failed: %d events (%v)\n", len(uploaded.Failed), uploaded.Failed)
				os.Exit(ExitError)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Show what would be uploaded without touching WordPress")
	cmd.Flags().BoolVar(&flagPublish, "publish", false, "Publish the created drafts immediately")
	return cmd
}
