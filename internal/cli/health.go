package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/envisionperdido/perdido-events/internal/health"
	"github.com/envisionperdido/perdido-events/internal/report"
)

func newHealthCmd() *cobra.Command {
	var (
		flagMinUpcoming int
		flagNotifyOK    bool
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the public calendar is alive",
		Long: `Verifies the WordPress API answers with valid credentials, enough
published events have upcoming start times, and the public calendar page
still renders. On failure the report is mailed to the configured address
and the command exits with code 2.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			client, err := wordpressClient(settings)
			if err != nil {
				return err
			}

			check := health.New(client, settings.WordPress.SiteURL, flagMinUpcoming)
			rep := check.Run()

			if format == FormatJSON {
				if err := writeJSON(os.Stdout, rep); err != nil {
					return err
				}
			} else {
				fmt.Print(rep)
			}

			if !rep.OK() || flagNotifyOK {
				if settings.Mail.ServiceURL != "" {
					subject := "Community Calendar Health Check: OK"
					if !rep.OK() {
						subject = "Community Calendar Health Check: ATTENTION Needed"
					}
					mailer, err := report.NewMailer(settings.Mail.ServiceURL)
					if err != nil {
						return err
					}
					if err := mailer.Send(subject, rep.String()); err != nil {
						return err
					}
					fmt.Fprintln(os.Stderr, "Health report mailed.")
				} else if !rep.OK() {
					fmt.Fprintln(os.Stderr, "Mail not configured; skipping notification.")
				}
			}

			if !rep.OK() {
				os.Exit(ExitAttention)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&flagMinUpcoming, "min-upcoming", health.DefaultMinUpcoming, "Smallest upcoming-event count considered healthy")
	cmd.Flags().BoolVar(&flagNotifyOK, "notify-ok", false, "Mail the report even when all checks pass")
	return cmd
}
