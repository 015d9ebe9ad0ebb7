package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/envisionperdido/perdido-events/internal/event"
)

// Storage handles persistence of event snapshots and labelsheets
type Storage struct {
	dataDir string
}

// New creates a new Storage instance rooted at dataDir
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// SnapshotPath returns the path to the snapshot file
func (s *Storage) SnapshotPath() string {
	return filepath.Join(s.dataDir, "snapshot.json")
}

// LoadSnapshot loads the snapshot from disk, returning an empty snapshot
// when none exists yet
func (s *Storage) LoadSnapshot() (*event.Snapshot, error) {
	data, err := os.ReadFile(s.SnapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return event.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot event.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Events == nil {
		snapshot.Events = make(map[string]*event.Event)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *event.Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(s.SnapshotPath(), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// MergeAndSave folds freshly scraped events into the stored snapshot,
// keeping labels already recorded for known events, and saves the result.
// Returns the diff against the previous snapshot.
func (s *Storage) MergeAndSave(current []*event.Event) (*event.DiffResult, error) {
	previous, err := s.LoadSnapshot()
	if err != nil {
		return nil, err
	}

	diff := event.Diff(previous, current)

	for _, evt := range current {
		previous.Events[evt.ID] = evt
	}
	if err := s.SaveSnapshot(previous); err != nil {
		return nil, err
	}

	return diff, nil
}

// Events returns all snapshot events sorted by start time then title
func (s *Storage) Events() ([]*event.Event, error) {
	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.Sorted(), nil
}
