package event

import (
	"sort"
)

// Snapshot represents the set of known events at a point in time
type Snapshot struct {
	Events    map[string]*Event `json:"events"`     // keyed by Event.ID
	UpdatedAt string            `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Events: make(map[string]*Event),
	}
}

// CreateSnapshot creates a snapshot from a list of events
func CreateSnapshot(events []*Event, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt
	for _, evt := range events {
		snap.Events[evt.ID] = evt
	}
	return snap
}

// Sorted returns the snapshot's events ordered by start time then title
func (s *Snapshot) Sorted() []*Event {
	events := make([]*Event, 0, len(s.Events))
	for _, evt := range s.Events {
		events = append(events, evt)
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].Title < events[j].Title
	})
	return events
}

// DiffResult contains the result of comparing a scrape against a snapshot
type DiffResult struct {
	NewEvents []*Event
	Known     int
}

// Diff compares current events against a previous snapshot and returns the
// events not seen before. Known events keep the label stored in the snapshot
// so human decisions survive re-scrapes.
func Diff(previous *Snapshot, current []*Event) *DiffResult {
	result := &DiffResult{
		NewEvents: make([]*Event, 0),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	for _, evt := range current {
		known, exists := previous.Events[evt.ID]
		if !exists {
			result.NewEvents = append(result.NewEvents, evt)
			continue
		}
		result.Known++
		if known.Label.IsHuman() && !evt.Label.IsHuman() {
			evt.Label = known.Label
		}
		if !known.FirstSeen.IsZero() {
			evt.FirstSeen = known.FirstSeen
		}
	}

	// Sort new events for consistent output
	sort.Slice(result.NewEvents, func(i, j int) bool {
		if !result.NewEvents[i].Start.Equal(result.NewEvents[j].Start) {
			return result.NewEvents[i].Start.Before(result.NewEvents[j].Start)
		}
		return result.NewEvents[i].Title < result.NewEvents[j].Title
	})

	return result
}
