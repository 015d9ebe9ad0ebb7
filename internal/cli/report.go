package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/envisionperdido/perdido-events/internal/report"
)

func newReportCmd() *cobra.Command {
	var (
		flagMail    bool
		flagSubject string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the review report for the upcoming events",
		Long: `Classifies the upcoming events and renders the review report: confident
community events, community events needing human review, and everything
classified away. With --mail the report is also sent through the
configured mail service.`,
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
			summary := report.Build(result)

			if format == FormatJSON {
				if err := writeJSON(os.Stdout, summary); err != nil {
					return err
				}
			} else if err := summary.Render(os.Stdout); err != nil {
				return err
			}

			if flagMail {
				mailer, err := report.NewMailer(settings.Mail.ServiceURL)
				if err != nil {
					return err
				}
				if err := mailer.Send(flagSubject, summary.String()); err != nil {
					return err
				}
				fmt.Fprintln(os.Stderr, "Report mailed.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagMail, "mail", false, "Send the report through the configured mail service")
	cmd.Flags().StringVar(&flagSubject, "subject", "Community Calendar Review Report", "Mail subject")
	return cmd
}
