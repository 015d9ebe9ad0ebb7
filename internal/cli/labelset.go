package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envisionperdido/perdido-events/internal/storage"
)

func newLabelsetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labelset",
		Short: "Export and import labeling spreadsheets",
	}
	cmd.AddCommand(newLabelsetExportCmd(), newLabelsetImportCmd())
	return cmd
}

func newLabelsetExportCmd() *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "export <file.csv>",
		Short: "Export the stored events as a labeling CSV",
		Long: `Writes every stored event to a CSV with an empty label column for the
reviewer to fill in. Events that already carry a human label are pre-filled
so re-exports never lose work. Filter flags scope the export, e.g. one
month at a time for a labeling session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := openStorage(settings)
			if err != nil {
				return err
			}
			events, err := store.Events()
			if err != nil {
				return fmt.Errorf("loading events: %w", err)
			}
			f, err := ff.build()
			if err != nil {
				return err
			}
			events = f.Apply(events)
			if err := storage.ExportLabelset(args[0], events); err != nil {
				return err
			}
			fmt.Printf("Exported %d events to %s\n", len(events), args[0])
			return nil
		},
	}

	ff.register(cmd)
	return cmd
}

func newLabelsetImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import reviewer labels from a labeling CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := openStorage(settings)
			if err != nil {
				return err
			}
			return importLabelset(store, args[0])
		},
	}
}
