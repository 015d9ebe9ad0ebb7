package wordpress

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/pipeline"
)

func testSite(t *testing.T) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var posts []map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/users/me", func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"code": "rest_not_logged_in", "message": "auth required"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": "Calendar Bot"})
	})
	mux.HandleFunc("/wp-json/wp/v2/event_location", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var loc map[string]any
			json.NewDecoder(r.Body).Decode(&loc)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": 7, "name": loc["name"]})
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{{"id": 3, "name": "Flora-Bama"}})
	})
	mux.HandleFunc("/wp-json/wp/v2/ajde_events", func(w http.ResponseWriter, r *http.Request) {
		var post map[string]any
		json.NewDecoder(r.Body).Decode(&post)
		posts = append(posts, post)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": 100 + len(posts)})
	})
	mux.HandleFunc("/wp-json/wp/v2/ajde_events/101", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": 101, "status": "publish"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &posts
}

func TestTestConnection(t *testing.T) {
	srv, _ := testSite(t)

	name, err := New(srv.URL, "bot", "app-password").TestConnection()
	if err != nil {
		t.Fatalf("connection test: %v", err)
	}
	if name != "Calendar Bot" {
		t.Errorf("unexpected user name: %s", name)
	}
}

func TestEnsureLocation(t *testing.T) {
	srv, _ := testSite(t)
	c := New(srv.URL, "bot", "pw")

	t.Run("existing location reused", func(t *testing.T) {
		id, err := c.EnsureLocation("Flora-Bama")
		if err != nil {
			t.Fatal(err)
		}
		if id != 3 {
			t.Errorf("expected existing location id 3, got %d", id)
		}
	})

	t.Run("new location created", func(t *testing.T) {
		id, err := c.EnsureLocation("Johnson Beach")
		if err != nil {
			t.Fatal(err)
		}
		if id != 7 {
			t.Errorf("expected created location id 7, got %d", id)
		}
	})

	t.Run("empty name yields no location", func(t *testing.T) {
		id, err := c.EnsureLocation("")
		if err != nil || id != 0 {
			t.Errorf("expected (0, nil), got (%d, %v)", id, err)
		}
	})
}

func TestUpload(t *testing.T) {
	srv, posts := testSite(t)
	c := New(srv.URL, "bot", "pw")

	start := time.Date(2026, 4, 4, 18, 30, 0, 0, time.UTC)
	trivia := &event.Event{ID: "t", Title: "Trivia Night", Description: "trivia and drinks", Location: "Flora-Bama", URL: "https://example.com/t", Start: start, End: start.Add(2 * time.Hour)}
	market := &event.Event{ID: "m", Title: "Farmers Market"}

	outcomes := []pipeline.Outcome{
		{Event: trivia, Class: event.Community, Confidence: 0.95},
		{Event: market, Class: event.Community, Confidence: 0.6, Review: true},
	}

	result := c.Upload(outcomes)
	if len(result.Created) != 2 || len(result.Failed) != 0 {
		t.Fatalf("expected 2 created events, got %+v", result)
	}

	first := (*posts)[0]
	if first["status"] != "draft" {
		t.Errorf("events must upload as drafts, got %v", first["status"])
	}
	meta, ok := first["meta"].(map[string]any)
	if !ok {
		t.Fatal("expected meta object on the created post")
	}
	if meta["evcal_start_date"] != "2026-04-04" {
		t.Errorf("unexpected start date meta: %v", meta["evcal_start_date"])
	}
	if meta["evcal_start_time_hour"] != "06" || meta["evcal_start_time_ampm"] != "pm" {
		t.Errorf("unexpected start time meta: %v %v", meta["evcal_start_time_hour"], meta["evcal_start_time_ampm"])
	}
	if meta["evcal_lmlink"] != "https://example.com/t" {
		t.Errorf("unexpected link meta: %v", meta["evcal_lmlink"])
	}

	// Review-flagged events are uploaded with a visible marker
	second := (*posts)[1]
	if second["title"] != "[REVIEW] Farmers Market" {
		t.Errorf("expected review marker in title, got %v", second["title"])
	}
}

func TestPublish(t *testing.T) {
	srv, _ := testSite(t)
	c := New(srv.URL, "bot", "pw")

	n, err := c.Publish([]int{101})
	if err != nil {
		t.Fatalf("publishing: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 published, got %d", n)
	}
}

func TestEventMetaOmitsUnknownTimes(t *testing.T) {
	meta := eventMeta(&event.Event{Title: "No date"}, 0)
	if _, ok := meta["evcal_srow"]; ok {
		t.Error("expected no start meta for zero start time")
	}
	if _, ok := meta["event_location"]; ok {
		t.Error("expected no location meta for id 0")
	}
}
