package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/envisionperdido/perdido-events/internal/report"
)

func newClassifyCmd() *cobra.Command {
	var (
		flagThreshold float64
		flagAll       bool
		ff            filterFlags
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify stored events as community or non-community",
		Long: `Runs the trained classifier over the upcoming events in the snapshot.
Human labels always win over model predictions; predictions below the
review threshold are flagged for human review, never dropped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("threshold") {
				settings.Classifier.Threshold = flagThreshold
			}

			f, err := ff.build()
			if err != nil {
				return err
			}
			result, err := classifyStored(settings, flagAll, f)
			if err != nil {
				return err
			}

			if format == FormatJSON {
				return writeJSON(os.Stdout, result)
			}
			return report.Build(result).Render(os.Stdout)
		},
	}

	cmd.Flags().Float64Var(&flagThreshold, "threshold", 0.75, "Review threshold for prediction confidence (overrides config)")
	cmd.Flags().BoolVar(&flagAll, "all", false, "Classify past events too, not only upcoming ones")
	ff.register(cmd)
	return cmd
}
