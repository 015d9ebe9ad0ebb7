package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/notifier"
)

func newAnnounceCmd() *cobra.Command {
	var flagPost bool

	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Announce confident community events on Twitter",
		Long: `Classifies the upcoming events and posts the confidently community ones
to Twitter. Review-flagged predictions are never announced; they wait for
a human decision. Without --post the announcements are only printed.
Posting requires TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN
and TWITTER_ACCESS_SECRET in the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			result, err := classifyStored(settings, false, nil)
			if err != nil {
				return err
			}

			var confident []*event.Event
			for _, o := range result.Outcomes {
				if o.Class == event.Community && !o.Review {
					confident = append(confident, o.Event)
				}
			}
			if len(confident) == 0 {
				fmt.Println("No confident community events to announce.")
				return nil
			}
			verbosef("Announcing %d events\n", len(confident))

			var n notifier.Notifier
			if flagPost {
				n, err = notifier.NewTwitterNotifier()
				if err != nil {
					return err
				}
			} else {
				n = notifier.NewDryRunNotifier()
			}
			return n.Announce(confident)
		},
	}

	cmd.Flags().BoolVar(&flagPost, "post", false, "Actually post to Twitter instead of the default dry run")
	return cmd
}
