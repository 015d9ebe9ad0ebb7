// Package health verifies the public calendar is alive: the WordPress API
// answers with valid credentials, published events exist with upcoming start
// times, and the public calendar page still renders EventON markup.
package health

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/envisionperdido/perdido-events/internal/wordpress"
)

// DefaultMinUpcoming is the smallest upcoming-event count considered healthy
const DefaultMinUpcoming = 5

// markers that identify EventON calendar markup on the public page
var calendarMarkers = []string{"ajde_evcal", "evo-calendar", "evo_event"}

// Check runs the calendar health checks
type Check struct {
	wp          *wordpress.Client
	httpClient  *http.Client
	siteURL     string
	minUpcoming int
	now         func() time.Time
}

// New builds a health check against the given site
func New(wp *wordpress.Client, siteURL string, minUpcoming int) *Check {
	if minUpcoming <= 0 {
		minUpcoming = DefaultMinUpcoming
	}
	return &Check{
		wp:          wp,
		httpClient:  &http.Client{Timeout: 20 * time.Second},
		siteURL:     strings.TrimRight(siteURL, "/"),
		minUpcoming: minUpcoming,
		now:         time.Now,
	}
}

// Item is the outcome of one check
type Item struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Report collects all check outcomes
type Report struct {
	CheckedAt time.Time `json:"checked_at"`
	Items     []Item    `json:"items"`
	Upcoming  int       `json:"upcoming"`
}

// OK reports whether every check passed
func (r *Report) OK() bool {
	for _, item := range r.Items {
		if !item.OK {
			return false
		}
	}
	return true
}

// String renders the report as the plain text used for console output and
// failure emails
func (r *Report) String() string {
	var b strings.Builder
	if r.OK() {
		b.WriteString("Calendar health check: OK\n\n")
	} else {
		b.WriteString("Calendar health check: FAILED\n\n")
	}
	for _, item := range r.Items {
		status := "ok"
		if !item.OK {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "  [%s] %s: %s\n", status, item.Name, item.Message)
	}
	return b.String()
}

// Run executes all checks. A failing check never aborts the run; every
// outcome lands in the report so the failure email shows the full picture.
func (c *Check) Run() *Report {
	report := &Report{CheckedAt: c.now().UTC()}

	name, err := c.wp.TestConnection()
	if err != nil {
		report.Items = append(report.Items, Item{Name: "api", Message: err.Error()})
	} else {
		report.Items = append(report.Items, Item{Name: "api", OK: true, Message: "connected as " + name})
	}

	events, err := c.wp.PublishedEvents()
	if err != nil {
		report.Items = append(report.Items, Item{Name: "events", Message: err.Error()})
	} else {
		report.Upcoming = wordpress.CountUpcoming(events, c.now())
		ok := report.Upcoming >= c.minUpcoming
		report.Items = append(report.Items, Item{
			Name:    "events",
			OK:      ok,
			Message: fmt.Sprintf("%d upcoming events (threshold %d)", report.Upcoming, c.minUpcoming),
		})
	}

	ok, msg := c.checkCalendarPage()
	report.Items = append(report.Items, Item{Name: "calendar page", OK: ok, Message: msg})

	return report
}

// checkCalendarPage loads the public events page and looks for EventON markup
func (c *Check) checkCalendarPage() (bool, string) {
	url := c.siteURL + "/events"
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return false, fmt.Sprintf("fetching %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Sprintf("calendar page returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return false, fmt.Sprintf("reading calendar page: %v", err)
	}

	html := string(body)
	for _, marker := range calendarMarkers {
		if strings.Contains(html, marker) {
			return true, "calendar markup detected"
		}
	}
	return false, "calendar page loaded but no calendar markup found"
}
