package scraper

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/envisionperdido/perdido-events/internal/calendar"
	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/logger"
)

const (
	DefaultBaseURL = "https://business.perdidochamber.com"
	UserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36"
	Timeout        = 30 * time.Second
)

var (
	icalAnchorPattern = regexp.MustCompile(`(?i)Add to Calendar\s*-\s*iCal`)
	detailSlugPattern = regexp.MustCompile(`/events/details/([^/]+)`)
)

// Scraper fetches and parses chamber calendar events
type Scraper struct {
	client *http.Client
	base   string
	delay  time.Duration
}

// New creates a Scraper for the given site base URL. An empty base uses the
// chamber's production site.
func New(base string) *Scraper {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Scraper{
		client: &http.Client{Timeout: Timeout},
		base:   strings.TrimRight(base, "/"),
		delay:  time.Second,
	}
}

// MonthURL returns the month-view calendar URL for a given month
func (s *Scraper) MonthURL(year int, month time.Month) string {
	return fmt.Sprintf("%s/events/calendar/%04d-%02d-01", s.base, year, month)
}

// FetchMonth scrapes every event reachable from one month-view page
func (s *Scraper) FetchMonth(monthURL string) ([]*event.Event, error) {
	started := time.Now()
	links, err := s.EventLinks(monthURL)
	if err != nil {
		return nil, err
	}

	events := make([]*event.Event, 0, len(links))
	for _, link := range links {
		evts, err := s.FetchEvent(link)
		if err != nil {
			// One broken detail page should not sink the whole month
			logger.Warn("Skipping event page", logger.Fields{
				"url":   link,
				"error": err.Error(),
			})
			logger.IncrCounter("scrape.pages_skipped")
			continue
		}
		events = append(events, evts...)
	}

	events = dedupe(events)
	logger.RecordTiming("scrape.month", time.Since(started))
	logger.SetGauge("scrape.events", float64(len(events)))
	return events, nil
}

// EventLinks collects the event detail links from a month-view page,
// preserving page order and dropping duplicates
func (s *Scraper) EventLinks(monthURL string) ([]string, error) {
	body, err := s.get(monthURL)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar page: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar page: %w", err)
	}

	seen := make(map[string]bool)
	links := make([]string, 0)
	doc.Find(`a[href*="/events/details"]`).Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		abs := s.resolve(monthURL, href)
		if abs != "" && !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
	})

	return links, nil
}

// FetchEvent resolves one detail page to its ICS feed and parses it
func (s *Scraper) FetchEvent(pageURL string) ([]*event.Event, error) {
	time.Sleep(s.delay) // be polite to the chamber's server

	icsURL, err := s.icsURL(pageURL)
	if err != nil {
		return nil, err
	}

	body, err := s.get(icsURL)
	if err != nil {
		return nil, fmt.Errorf("fetching ICS %s: %w", icsURL, err)
	}
	defer body.Close()

	events, err := calendar.Parse(body, icsURL, pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing ICS %s: %w", icsURL, err)
	}
	return events, nil
}

// icsURL finds the "Add to Calendar - iCal" link on an event detail page.
// When the page has no such anchor, the URL is constructed from the detail
// slug, which is the convention GrowthZone sites follow.
func (s *Scraper) icsURL(pageURL string) (string, error) {
	body, err := s.get(pageURL)
	if err != nil {
		return "", fmt.Errorf("fetching event page: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("parsing event page: %w", err)
	}

	found := ""
	doc.Find("a").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		if icalAnchorPattern.MatchString(strings.TrimSpace(sel.Text())) || strings.HasSuffix(href, ".ics") {
			found = s.resolve(pageURL, href)
			return false
		}
		return true
	})
	if found != "" {
		return found, nil
	}

	if m := detailSlugPattern.FindStringSubmatch(pageURL); m != nil {
		return fmt.Sprintf("%s/events/ical/%s.ics", s.base, m[1]), nil
	}

	return "", fmt.Errorf("no ICS link found on %s", pageURL)
}

// get performs a GET with the scraper's user agent, retrying transient
// failures with exponential backoff
func (s *Scraper) get(rawURL string) (io.ReadCloser, error) {
	var body io.ReadCloser

	operation := func() error {
		req, err := http.NewRequest(http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			err := fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		body = resp.Body
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}

// resolve makes href absolute against the page it appeared on
func (s *Scraper) resolve(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// dedupe drops events already seen by ID, preserving order
func dedupe(events []*event.Event) []*event.Event {
	seen := make(map[string]bool)
	unique := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if !seen[evt.ID] {
			seen[evt.ID] = true
			unique = append(unique, evt)
		}
	}
	return unique
}
