package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/envisionperdido/perdido-events/internal/event"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//GrowthZone//Chamber//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:evt-4521@business.perdidochamber.com\r\n" +
	"DTSTART:20260404T230000Z\r\n" +
	"DTEND:20260405T010000Z\r\n" +
	"SUMMARY:Trivia Night\r\n" +
	"DESCRIPTION:Join us for trivia\\, drinks\\, and fun!\r\n" +
	" This line is folded onto the previous one.\r\n" +
	"LOCATION:Flora-Bama\\; Perdido Key\r\n" +
	"CATEGORIES:Community\r\n" +
	"URL:https://business.perdidochamber.com/events/details/trivia-night-4521\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:evt-9013@business.perdidochamber.com\r\n" +
	"DTSTART;VALUE=DATE:20260410\r\n" +
	"SUMMARY:Board Meeting\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParse(t *testing.T) {
	events, err := Parse(strings.NewReader(sampleICS), "https://example.com/a.ics", "https://example.com/page")
	if err != nil {
		t.Fatalf("parsing sample: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	trivia := events[0]
	t.Run("fields", func(t *testing.T) {
		if trivia.UID != "evt-4521@business.perdidochamber.com" {
			t.Errorf("unexpected UID: %s", trivia.UID)
		}
		if trivia.Title != "Trivia Night" {
			t.Errorf("unexpected title: %s", trivia.Title)
		}
		if trivia.Category != "Community" {
			t.Errorf("unexpected category: %s", trivia.Category)
		}
		want := time.Date(2026, 4, 4, 23, 0, 0, 0, time.UTC)
		if !trivia.Start.Equal(want) {
			t.Errorf("unexpected start: %v", trivia.Start)
		}
	})

	t.Run("unescapes and unfolds", func(t *testing.T) {
		if !strings.Contains(trivia.Description, "trivia, drinks, and fun!This line is folded") {
			t.Errorf("description not unescaped/unfolded: %q", trivia.Description)
		}
		if trivia.Location != "Flora-Bama; Perdido Key" {
			t.Errorf("location not unescaped: %q", trivia.Location)
		}
	})

	t.Run("series id comes from UID", func(t *testing.T) {
		if trivia.SeriesID != trivia.UID {
			t.Errorf("expected series id %s, got %s", trivia.UID, trivia.SeriesID)
		}
	})

	t.Run("all-day dates and missing DTEND", func(t *testing.T) {
		board := events[1]
		if !board.Start.Equal(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected start for all-day event: %v", board.Start)
		}
		if !board.End.IsZero() {
			t.Errorf("expected zero end time, got %v", board.End)
		}
	})
}

func TestParseSkipsUntitledEvents(t *testing.T) {
	ics := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nUID:x\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	events, err := Parse(strings.NewReader(ics), "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("expected untitled VEVENT to be skipped, got %d events", len(events))
	}
}

func TestGenerateParseRoundTrip(t *testing.T) {
	start := time.Date(2026, 5, 1, 17, 0, 0, 0, time.UTC)
	original := event.New("uid-1", "Gumbo Cook-Off, Round 2", "Bring a bowl;\nall welcome", "Community Center", "Food", "https://example.com/gumbo", start, start.Add(3*time.Hour))

	parsed, err := Parse(strings.NewReader(GenerateICS(original)), "", "")
	if err != nil {
		t.Fatalf("parsing generated ICS: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("expected 1 event, got %d", len(parsed))
	}

	got := parsed[0]
	if got.Title != original.Title {
		t.Errorf("title: got %q, want %q", got.Title, original.Title)
	}
	if got.Description != original.Description {
		t.Errorf("description: got %q, want %q", got.Description, original.Description)
	}
	if got.Location != original.Location {
		t.Errorf("location: got %q, want %q", got.Location, original.Location)
	}
	if !got.Start.Equal(original.Start) || !got.End.Equal(original.End) {
		t.Errorf("times: got %v-%v, want %v-%v", got.Start, got.End, original.Start, original.End)
	}
}
