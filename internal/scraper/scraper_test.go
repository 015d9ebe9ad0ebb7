package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const monthPage = `<html><body>
<div class="calendar">
  <a href="/events/details/trivia-night-4521">Trivia Night</a>
  <a href="/events/details/board-meeting-9013">Board Meeting</a>
  <a href="/events/details/trivia-night-4521">Trivia Night (dup)</a>
  <a href="/about">About</a>
</div>
</body></html>`

const triviaPage = `<html><body>
<a href="/events/ical/trivia-night-4521.ics">Add to Calendar - iCal</a>
</body></html>`

// board page has no ical anchor; the scraper must fall back to the slug URL
const boardPage = `<html><body><p>no calendar links here</p></body></html>`

const triviaICS = "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nUID:trivia-4521\r\nDTSTART:20260404T230000Z\r\nSUMMARY:Trivia Night\r\nLOCATION:Flora-Bama\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
const boardICS = "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nUID:board-9013\r\nDTSTART:20260407T140000Z\r\nSUMMARY:Board Meeting\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/events/calendar/2026-04-01", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, monthPage)
	})
	mux.HandleFunc("/events/details/trivia-night-4521", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, triviaPage)
	})
	mux.HandleFunc("/events/details/board-meeting-9013", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, boardPage)
	})
	mux.HandleFunc("/events/ical/trivia-night-4521.ics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, triviaICS)
	})
	mux.HandleFunc("/events/ical/board-meeting-9013.ics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, boardICS)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestScraper(base string) *Scraper {
	s := New(base)
	s.delay = 0
	return s
}

func TestEventLinks(t *testing.T) {
	srv := testServer(t)
	s := newTestScraper(srv.URL)

	links, err := s.EventLinks(srv.URL + "/events/calendar/2026-04-01")
	if err != nil {
		t.Fatalf("collecting links: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 unique detail links, got %d: %v", len(links), links)
	}
	if links[0] != srv.URL+"/events/details/trivia-night-4521" {
		t.Errorf("unexpected first link: %s", links[0])
	}
	if links[1] != srv.URL+"/events/details/board-meeting-9013" {
		t.Errorf("unexpected second link: %s", links[1])
	}
}

func TestFetchMonth(t *testing.T) {
	srv := testServer(t)
	s := newTestScraper(srv.URL)

	events, err := s.FetchMonth(srv.URL + "/events/calendar/2026-04-01")
	if err != nil {
		t.Fatalf("fetching month: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	if events[0].Title != "Trivia Night" || events[0].UID != "trivia-4521" {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[0].Location != "Flora-Bama" {
		t.Errorf("unexpected location: %s", events[0].Location)
	}
	if events[1].Title != "Board Meeting" {
		t.Errorf("unexpected second event: %+v", events[1])
	}
	// Source page recorded on events whose ICS has no URL property
	if events[0].URL == "" {
		t.Error("expected event URL to fall back to the detail page")
	}
}

func TestICSURLFallback(t *testing.T) {
	srv := testServer(t)
	s := newTestScraper(srv.URL)

	t.Run("anchor on page wins", func(t *testing.T) {
		got, err := s.icsURL(srv.URL + "/events/details/trivia-night-4521")
		if err != nil {
			t.Fatal(err)
		}
		want := srv.URL + "/events/ical/trivia-night-4521.ics"
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})

	t.Run("slug fallback when no anchor", func(t *testing.T) {
		got, err := s.icsURL(srv.URL + "/events/details/board-meeting-9013")
		if err != nil {
			t.Fatal(err)
		}
		want := srv.URL + "/events/ical/board-meeting-9013.ics"
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})
}

func TestMonthURL(t *testing.T) {
	s := New("https://example.com/")
	got := s.MonthURL(2026, 4)
	if got != "https://example.com/events/calendar/2026-04-01" {
		t.Errorf("unexpected month URL: %s", got)
	}
}

func TestGetRetriesAreBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := newTestScraper(srv.URL)
	// 4xx is permanent: no retry storm, immediate error
	if _, err := s.get(srv.URL + "/missing"); err == nil {
		t.Error("expected error for 404 response")
	}
}
