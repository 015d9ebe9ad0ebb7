package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/envisionperdido/perdido-events/internal/classify"
	"github.com/envisionperdido/perdido-events/internal/pipeline"
	"github.com/envisionperdido/perdido-events/internal/storage"
)

func newTrainCmd() *cobra.Command {
	var (
		flagLabels    string
		flagModel     string
		flagPropagate bool
		flagCollapse  bool
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the community classifier from human-labeled events",
		Long: `Trains the classifier on the human labels stored in the snapshot, holding
out a series-grouped fraction for evaluation, and saves the model artifact.
With --labels, a labelset CSV is imported into the snapshot first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := openStorage(settings)
			if err != nil {
				return err
			}

			if flagLabels != "" {
				if err := importLabelset(store, flagLabels); err != nil {
					return err
				}
			}

			events, err := store.Events()
			if err != nil {
				return fmt.Errorf("loading events: %w", err)
			}

			if flagPropagate {
				filled := pipeline.FillSeriesLabels(events)
				verbosef("Propagated labels to %d events\n", filled)
			}
			if flagCollapse {
				before := len(events)
				events = pipeline.Collapse(events)
				verbosef("Collapsed %d events into %d series representatives\n", before, len(events))
			}

			opts := classify.DefaultTrainOptions()
			opts.Features.MinTokenLength = settings.Classifier.MinTokenLength

			art, err := classify.Train(events, opts)
			if err != nil {
				return err
			}

			modelPath := settings.Data.ModelPath
			if flagModel != "" {
				modelPath = flagModel
			}
			if err := art.Save(modelPath); err != nil {
				return fmt.Errorf("saving model: %w", err)
			}

			meta := art.Metadata
			fmt.Printf("Trained on %d labeled events (%d community, %d non-community)\n",
				meta.LabeledRows, meta.Positives, meta.Negatives)
			if meta.Evaluation != nil {
				fmt.Println(meta.Evaluation)
			} else {
				fmt.Println("Too few series for a holdout; trained on all labels without evaluation.")
			}
			fmt.Println("Saved model to:", modelPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagLabels, "labels", "", "Labelset CSV to import before training")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model output path (overrides config)")
	cmd.Flags().BoolVar(&flagPropagate, "propagate-series-labels", false, "Copy a series' unique human label to unlabeled occurrences before training")
	cmd.Flags().BoolVar(&flagCollapse, "collapse-series", false, "Train on one representative occurrence per series")
	return cmd
}

// importLabelset reads a labelset CSV and persists its labels to the snapshot
func importLabelset(store *storage.Storage, path string) error {
	labels, err := storage.ImportLabels(path)
	if err != nil {
		return fmt.Errorf("importing labels: %w", err)
	}

	snapshot, err := store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	applied := storage.ApplyLabels(snapshot.Sorted(), labels)
	if err := store.SaveSnapshot(snapshot); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Imported %d labels (%d applied)\n", len(labels), applied)
	return nil
}
