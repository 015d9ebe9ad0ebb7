// Package report summarizes classification runs for human review and
// delivers them by email.
//
// A report partitions outcomes into the buckets a reviewer triages in order:
// community events the model is confident about, community events needing
// review, and everything classed non-community. Review-flagged records are
// always shown, never silently dropped.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/pipeline"
)

// Summary buckets one classification run for review
type Summary struct {
	GeneratedAt        time.Time          `json:"generated_at"`
	Total              int                `json:"total"`
	CommunityConfident []pipeline.Outcome `json:"community_confident"`
	CommunityReview    []pipeline.Outcome `json:"community_review"`
	NonCommunity       []pipeline.Outcome `json:"non_community"`
	Warnings           []pipeline.Warning `json:"warnings,omitempty"`
}

// Build partitions a run's outcomes into review buckets
func Build(result *pipeline.Result) *Summary {
	s := &Summary{
		GeneratedAt: time.Now().UTC(),
		Total:       len(result.Outcomes),
		Warnings:    result.Warnings,
	}
	for _, out := range result.Outcomes {
		switch {
		case out.Class == event.Community && !out.Review:
			s.CommunityConfident = append(s.CommunityConfident, out)
		case out.Class == event.Community:
			s.CommunityReview = append(s.CommunityReview, out)
		default:
			s.NonCommunity = append(s.NonCommunity, out)
		}
	}
	return s
}

// Render writes the plain-text review report
func (s *Summary) Render(w io.Writer) error {
	fmt.Fprintf(w, "Community event classification — %s\n\n", s.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(w, "Events classified: %d\n", s.Total)
	fmt.Fprintf(w, "  Community (confident):    %d\n", len(s.CommunityConfident))
	fmt.Fprintf(w, "  Community (needs review): %d\n", len(s.CommunityReview))
	fmt.Fprintf(w, "  Non-community:            %d\n", len(s.NonCommunity))

	section := func(title string, outcomes []pipeline.Outcome) {
		if len(outcomes) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
		for _, out := range outcomes {
			fmt.Fprintln(w, formatLine(out))
		}
	}

	section("Community events ready for upload", s.CommunityConfident)
	section("Community events needing review", s.CommunityReview)
	section("Non-community events", s.NonCommunity)

	if len(s.Warnings) > 0 {
		fmt.Fprintf(w, "\nData warnings\n-------------\n")
		for _, warn := range s.Warnings {
			fmt.Fprintf(w, "  %s: %s\n", warn.EventID, warn.Message)
		}
	}

	return nil
}

// String renders the report to a string
func (s *Summary) String() string {
	var b strings.Builder
	s.Render(&b) //nolint:errcheck // strings.Builder never fails
	return b.String()
}

func formatLine(out pipeline.Outcome) string {
	e := out.Event
	var marks []string
	switch {
	case out.Human:
		marks = append(marks, "human")
	case out.Propagated:
		marks = append(marks, "propagated")
	default:
		marks = append(marks, fmt.Sprintf("%.0f%%", out.Confidence*100))
	}
	if out.Review {
		marks = append(marks, "REVIEW")
	}

	when := "date unknown"
	if !e.Start.IsZero() {
		when = e.Start.Format("Mon Jan 2 3:04 PM")
	}
	line := fmt.Sprintf("  - %s (%s) [%s]", e.Title, when, strings.Join(marks, ", "))
	if e.Location != "" {
		line += " @ " + e.Location
	}
	return line
}
