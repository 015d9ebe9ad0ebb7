package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/envisionperdido/perdido-events/internal/event"
)

func testEvents() []*event.Event {
	start := time.Date(2026, 4, 4, 18, 0, 0, 0, time.UTC)
	trivia := event.New("uid-1", "Trivia Night", "trivia and drinks", "Flora-Bama", "", "https://example.com/t", start, start.Add(2*time.Hour))
	board := event.New("uid-2", "Board Meeting", "quarterly review", "Chamber Office", "", "", start.AddDate(0, 0, 3), time.Time{})
	return []*event.Event{trivia, board}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("creating storage: %v", err)
	}

	events := testEvents()
	events[0].Label = event.HumanLabel(event.Community)

	snap := event.CreateSnapshot(events, time.Now().UTC().Format(time.RFC3339))
	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatalf("saving snapshot: %v", err)
	}

	loaded, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("loading snapshot: %v", err)
	}
	if len(loaded.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(loaded.Events))
	}

	got := loaded.Events[events[0].ID]
	if got == nil {
		t.Fatal("expected trivia event in snapshot")
	}
	if !got.Label.IsHuman() || got.Label.Class != event.Community {
		t.Error("human label did not survive the round trip")
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	snap, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("expected empty snapshot for missing file, got error: %v", err)
	}
	if len(snap.Events) != 0 {
		t.Errorf("expected empty snapshot, got %d events", len(snap.Events))
	}
}

func TestMergeAndSave(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	events := testEvents()
	events[0].Label = event.HumanLabel(event.Community)
	if _, err := store.MergeAndSave(events); err != nil {
		t.Fatalf("first merge: %v", err)
	}

	// Re-scrape: same events, labels gone, plus one new event
	rescraped := testEvents()
	extra := event.New("uid-3", "Beach Cleanup", "bring gloves", "Johnson Beach", "", "", time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC), time.Time{})
	rescraped = append(rescraped, extra)

	diff, err := store.MergeAndSave(rescraped)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if len(diff.NewEvents) != 1 || diff.NewEvents[0].ID != extra.ID {
		t.Errorf("expected only the cleanup to be new, got %+v", diff.NewEvents)
	}
	if !rescraped[0].Label.IsHuman() {
		t.Error("expected the stored human label to be carried onto the re-scraped event")
	}

	all, err := store.Events()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 events in snapshot, got %d", len(all))
	}
}

func TestLabelsetRoundTrip(t *testing.T) {
	events := testEvents()
	events[1].Label = event.HumanLabel(event.NonCommunity)
	path := filepath.Join(t.TempDir(), "labelset.csv")

	if err := ExportLabelset(path, events); err != nil {
		t.Fatalf("exporting labelset: %v", err)
	}

	labels, err := ImportLabels(path)
	if err != nil {
		t.Fatalf("importing labelset: %v", err)
	}
	// Only the pre-filled label round-trips; the blank row is skipped
	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(labels))
	}
	if labels[events[1].ID] != event.NonCommunity {
		t.Error("expected the board meeting to import as non-community")
	}

	fresh := testEvents()
	if applied := ApplyLabels(fresh, labels); applied != 1 {
		t.Errorf("expected 1 applied label, got %d", applied)
	}
	if !fresh[1].Label.IsHuman() || fresh[1].Label.Class != event.NonCommunity {
		t.Error("label not applied to matching event")
	}
}

func TestImportLabelsBadSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	if _, err := ImportLabels(path); err == nil {
		t.Error("expected error for missing labelset")
	}
}
