package event

import (
	"crypto/sha1"
	"fmt"
	"time"
)

// Event represents one occurrence of a chamber calendar event
type Event struct {
	ID          string    `json:"id"`
	UID         string    `json:"uid,omitempty"` // UID from the source ICS feed
	SeriesID    string    `json:"series_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Category    string    `json:"category,omitempty"`
	URL         string    `json:"url,omitempty"`
	Start       time.Time `json:"start,omitempty"`
	End         time.Time `json:"end,omitempty"`
	SourceICS   string    `json:"source_ics,omitempty"`
	FirstSeen   time.Time `json:"first_seen,omitempty"`
	Label       Label     `json:"label,omitempty"`
}

// GenerateID creates a deterministic ID for one occurrence based on its
// UID and start time, so two occurrences of the same series get distinct IDs
func GenerateID(uid string, start time.Time) string {
	h := sha1.New()
	h.Write([]byte(uid + "|" + start.UTC().Format(time.RFC3339)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// New creates a new Event with ID, SeriesID, and FirstSeen populated
func New(uid, title, description, location, category, url string, start, end time.Time) *Event {
	e := &Event{
		UID:         uid,
		Title:       title,
		Description: description,
		Location:    location,
		Category:    category,
		URL:         url,
		Start:       start,
		End:         end,
		FirstSeen:   time.Now().UTC(),
	}
	e.ID = GenerateID(uid, start)
	e.SeriesID = DeriveSeriesID(e)
	return e
}

// IsPast reports whether the occurrence has already started.
// Returns false when the start time is unknown (safer default).
func (e *Event) IsPast() bool {
	if e.Start.IsZero() {
		return false
	}
	return e.Start.Before(time.Now())
}

// IsUpcoming reports whether the occurrence is in the future.
// Returns true when the start time is unknown, so it is not filtered out.
func (e *Event) IsUpcoming() bool {
	if e.Start.IsZero() {
		return true
	}
	return e.Start.After(time.Now())
}
