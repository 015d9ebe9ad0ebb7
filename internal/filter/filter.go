// Package filter narrows event lists by date range, venue, keyword, and
// weekend criteria.
//
// Filters scope the classify and labelset commands to a slice of the
// calendar, e.g. only April events or only events at a given venue:
//
//	f := filter.New()
//	f.WeekendsOnly = true
//	f.Venues = []string{"Flora-Bama"}
//	filtered := f.Apply(events)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/envisionperdido/perdido-events/internal/event"
)

// Filter represents event filtering criteria. An empty filter matches
// every event.
type Filter struct {
	// Date range, inclusive. Events without a start time pass date checks.
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Venue filtering (case-insensitive substring match on location)
	Venues []string `json:"venues,omitempty"`

	// Keyword filtering (case-insensitive substring match on title and
	// description)
	Keywords []string `json:"keywords,omitempty"`

	// Weekend-only filtering (Saturday/Sunday)
	WeekendsOnly bool `json:"weekends_only,omitempty"`
}

// New creates an empty filter that matches all events
func New() *Filter {
	return &Filter{}
}

// IsEmpty reports whether the filter has any active criteria
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Venues) == 0 &&
		len(f.Keywords) == 0 &&
		!f.WeekendsOnly
}

// Matches checks if an event passes all active criteria. Events with no
// start time are never excluded by date or weekend checks; a missing date
// is a data problem for the classifier to surface, not a filter decision.
func (f *Filter) Matches(evt *event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	if !evt.Start.IsZero() {
		if f.DateFrom != nil && evt.Start.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && evt.Start.After(*f.DateTo) {
			return false
		}
		if f.WeekendsOnly {
			wd := evt.Start.Weekday()
			if wd != time.Saturday && wd != time.Sunday {
				return false
			}
		}
	}

	if len(f.Venues) > 0 && !matchesAny(evt.Location, f.Venues) {
		return false
	}

	if len(f.Keywords) > 0 {
		text := evt.Title + "\n" + evt.Description
		if !matchesAny(text, f.Keywords) {
			return false
		}
	}

	return true
}

func matchesAny(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, needle := range needles {
		if strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}

// Apply returns the events matching all criteria. An empty filter returns
// the original slice unchanged.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	if f.IsEmpty() {
		return events
	}

	var filtered []*event.Event
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if len(f.Venues) > 0 {
		parts = append(parts, fmt.Sprintf("Venues: %s", strings.Join(f.Venues, ", ")))
	}
	if len(f.Keywords) > 0 {
		parts = append(parts, fmt.Sprintf("Keywords: %s", strings.Join(f.Keywords, ", ")))
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}
	return strings.Join(parts, " | ")
}
