// Package wordpress uploads classified community events to the WordPress
// EventON calendar through the REST API.
//
// EventON stores events as the ajde_events custom post type with evcal_*
// metadata fields; a small server-side plugin exposes those fields to the
// REST API. Events are created as drafts so a human approves them before
// they go live. Review-flagged events are uploaded with a visible marker,
// never silently excluded.
package wordpress

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dghubble/sling"

	"github.com/envisionperdido/perdido-events/internal/logger"
	"github.com/envisionperdido/perdido-events/internal/pipeline"
)

// Client talks to a WordPress site's REST API using an application password
type Client struct {
	base *sling.Sling
}

// New creates a client for the given site. Credentials are a WordPress
// username and an application password.
func New(siteURL, username, appPassword string) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	base := sling.New().
		Client(httpClient).
		Base(trimSlash(siteURL) + "/wp-json/wp/v2/").
		SetBasicAuth(username, appPassword)
	return &Client{base: base}
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

type apiUser struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) text() string {
	if e == nil || (e.Code == "" && e.Message == "") {
		return "unknown error"
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TestConnection verifies the API is reachable and the credentials work,
// returning the authenticated display name
func (c *Client) TestConnection() (string, error) {
	var user apiUser
	var apiErr apiError
	resp, err := c.base.New().Get("users/me").Receive(&user, &apiErr)
	if err != nil {
		return "", fmt.Errorf("connecting to WordPress: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return user.Name, nil
	case http.StatusUnauthorized:
		return "", fmt.Errorf("WordPress authentication failed, check username and application password")
	default:
		return "", fmt.Errorf("WordPress API error %d (%s)", resp.StatusCode, apiErr.text())
	}
}

type location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Locations returns the existing event locations by name
func (c *Client) Locations() (map[string]int, error) {
	var locs []location
	var apiErr apiError
	resp, err := c.base.New().Get("event_location?per_page=100").Receive(&locs, &apiErr)
	if err != nil {
		return nil, fmt.Errorf("fetching locations: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching locations: API error %d (%s)", resp.StatusCode, apiErr.text())
	}

	byName := make(map[string]int, len(locs))
	for _, loc := range locs {
		byName[loc.Name] = loc.ID
	}
	return byName, nil
}

// EnsureLocation returns the ID of an existing location with this name, or
// creates one. Returns 0 for an empty name.
func (c *Client) EnsureLocation(name string) (int, error) {
	if name == "" {
		return 0, nil
	}

	existing, err := c.Locations()
	if err != nil {
		return 0, err
	}
	if id, ok := existing[name]; ok {
		return id, nil
	}

	var created location
	var apiErr apiError
	resp, err := c.base.New().Post("event_location").BodyJSON(location{Name: name}).Receive(&created, &apiErr)
	if err != nil {
		return 0, fmt.Errorf("creating location %q: %w", name, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return 0, fmt.Errorf("creating location %q: API error %d (%s)", name, resp.StatusCode, apiErr.text())
	}
	return created.ID, nil
}

type eventPost struct {
	Title   string         `json:"title"`
	Content string         `json:"content"`
	Status  string         `json:"status"`
	Meta    map[string]any `json:"meta"`
}

type createdPost struct {
	ID int `json:"id"`
}

// CreateEvent creates one event as a draft and returns its post ID.
// Transient server errors are retried with exponential backoff.
func (c *Client) CreateEvent(out pipeline.Outcome) (int, error) {
	e := out.Event
	locationID, err := c.EnsureLocation(e.Location)
	if err != nil {
		// A missing location is cosmetic; the event still uploads
		logger.Warn("Could not resolve location", logger.Fields{
			"event":    e.ID,
			"location": e.Location,
			"error":    err.Error(),
		})
		locationID = 0
	}

	title := e.Title
	if out.Review {
		title = "[REVIEW] " + title
	}
	body := eventPost{
		Title:   title,
		Content: e.Description,
		Status:  "draft",
		Meta:    eventMeta(e, locationID),
	}

	var created createdPost
	operation := func() error {
		var apiErr apiError
		resp, err := c.base.New().Post("ajde_events").BodyJSON(body).Receive(&created, &apiErr)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusCreated {
			return nil
		}
		failure := fmt.Errorf("creating event %q: API error %d (%s)", e.Title, resp.StatusCode, apiErr.text())
		if resp.StatusCode >= 500 {
			return failure
		}
		return backoff.Permanent(failure)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, policy); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// Publish flips draft events live, returning how many succeeded
func (c *Client) Publish(ids []int) (int, error) {
	published := 0
	for _, id := range ids {
		var updated createdPost
		var apiErr apiError
		resp, err := c.base.New().Post(fmt.Sprintf("ajde_events/%d", id)).
			BodyJSON(map[string]string{"status": "publish"}).
			Receive(&updated, &apiErr)
		if err != nil {
			return published, fmt.Errorf("publishing event %d: %w", id, err)
		}
		if resp.StatusCode != http.StatusOK {
			return published, fmt.Errorf("publishing event %d: API error %d (%s)", id, resp.StatusCode, apiErr.text())
		}
		published++
	}
	return published, nil
}

// PublishedEvent is the slice of an ajde_events post the health check reads
type PublishedEvent struct {
	ID   int            `json:"id"`
	Meta map[string]any `json:"meta"`
}

// StartUnix returns the event's evcal_srow start time as a unix timestamp,
// or 0 when absent or unparseable. EventON stores the row as a string or a
// number depending on how the post was created.
func (p PublishedEvent) StartUnix() int64 {
	switch v := p.Meta["evcal_srow"].(type) {
	case float64:
		return int64(v)
	case string:
		var n int64
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return 0
}

// PublishedEvents fetches the latest published calendar events
func (c *Client) PublishedEvents() ([]PublishedEvent, error) {
	var events []PublishedEvent
	var apiErr apiError
	resp, err := c.base.New().
		Get("ajde_events?per_page=100&status=publish&orderby=id&order=desc").
		Receive(&events, &apiErr)
	if err != nil {
		return nil, fmt.Errorf("fetching published events: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching published events: API error %d (%s)", resp.StatusCode, apiErr.text())
	}
	return events, nil
}

// CountUpcoming counts events starting at or after now
func CountUpcoming(events []PublishedEvent, now time.Time) int {
	cutoff := now.Unix()
	n := 0
	for _, e := range events {
		if e.StartUnix() >= cutoff {
			n++
		}
	}
	return n
}

// UploadResult reports one upload run
type UploadResult struct {
	Created []int    `json:"created"`
	Failed  []string `json:"failed,omitempty"` // event IDs that did not upload
}

// Upload pushes community-labeled outcomes to the calendar as drafts.
// Per-event failures are collected rather than aborting the batch.
func (c *Client) Upload(outcomes []pipeline.Outcome) *UploadResult {
	result := &UploadResult{}
	for _, out := range outcomes {
		id, err := c.CreateEvent(out)
		if err != nil {
			logger.Error("Event upload failed", logger.Fields{"event": out.Event.ID}, err)
			logger.IncrCounter("upload.failed")
			result.Failed = append(result.Failed, out.Event.ID)
			continue
		}
		logger.IncrCounter("upload.created")
		result.Created = append(result.Created, id)
	}
	return result
}
