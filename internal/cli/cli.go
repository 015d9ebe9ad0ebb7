package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/envisionperdido/perdido-events/internal/classify"
	"github.com/envisionperdido/perdido-events/internal/config"
	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/filter"
	"github.com/envisionperdido/perdido-events/internal/pipeline"
	"github.com/envisionperdido/perdido-events/internal/storage"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitAttention = 2 // new events found, or a health check failed
)

var (
	flagConfig  string
	flagDataDir string
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perdido-events",
		Short: "Community calendar workflow for the Perdido chamber of commerce",
		Long: `Scrapes the chamber of commerce event calendar, classifies events as
community or non-community with a trained model, emails a review report,
and uploads approved events to the WordPress EventON calendar as drafts.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (default: search standard locations)")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for snapshots and models (overrides config)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newInitCmd(),
		newScrapeCmd(),
		newTrainCmd(),
		newClassifyCmd(),
		newReportCmd(),
		newUploadCmd(),
		newAnnounceCmd(),
		newHealthCmd(),
		newLabelsetCmd(),
		newPipelineCmd(),
	)

	return cmd
}

// loadSettings reads config and applies persistent flag overrides
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		settings.Data.Dir = flagDataDir
	}
	return settings, nil
}

// outputFormat validates the --format flag
func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

func verbosef(format string, args ...any) {
	if flagVerbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// openStorage initializes the snapshot store from settings
func openStorage(settings *config.Settings) (*storage.Storage, error) {
	store, err := storage.New(settings.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// classifyStored runs the classifier over the stored upcoming events. A
// non-nil filter narrows the batch first.
func classifyStored(settings *config.Settings, includePast bool, f *filter.Filter) (*pipeline.Result, error) {
	store, err := openStorage(settings)
	if err != nil {
		return nil, err
	}

	events, err := store.Events()
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	if !includePast {
		upcoming := make([]*event.Event, 0, len(events))
		for _, e := range events {
			if e.IsUpcoming() {
				upcoming = append(upcoming, e)
			}
		}
		events = upcoming
	}
	if f != nil && !f.IsEmpty() {
		verbosef("Filter: %s\n", f)
		events = f.Apply(events)
	}
	verbosef("Classifying %d events\n", len(events))

	art, err := classify.Load(settings.Data.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}

	return pipeline.Process(art, events, pipeline.Options{
		Threshold: settings.Classifier.Threshold,
		Propagate: settings.Classifier.Propagate,
	})
}

// newInitCmd writes a default config file
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flagConfig
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("fetching user directory: %w", err)
				}
				path = filepath.Join(home, ".config", "perdido-events", "config.yaml")
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Println("Wrote default config to:", path)
			return nil
		},
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
