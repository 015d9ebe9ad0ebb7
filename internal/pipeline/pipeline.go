package pipeline

import (
	"fmt"

	"github.com/envisionperdido/perdido-events/internal/classify"
	"github.com/envisionperdido/perdido-events/internal/event"
)

// DefaultThreshold is the review cutoff used when none is configured.
// Predictions below it are flagged for human review.
const DefaultThreshold = 0.75

// Options control one classification run
type Options struct {
	// Threshold is the review cutoff in [0,1]. A prediction with
	// confidence strictly below it is flagged; equality is not flagged.
	Threshold float64
	// Propagate applies a series' unique human label to every occurrence
	Propagate bool
}

// Outcome pairs one event with its prediction
type Outcome struct {
	Event      *event.Event `json:"event"`
	Class      event.Class  `json:"class"`
	Confidence float64      `json:"confidence"`
	Review     bool         `json:"review"`
	Human      bool         `json:"human"`      // label came from a reviewer
	Propagated bool         `json:"propagated"` // label copied from a series sibling
}

// Warning records a per-record data problem that did not stop the run
type Warning struct {
	EventID string `json:"event_id"`
	Message string `json:"message"`
}

// Result is the output of one classification run, in input order
type Result struct {
	Outcomes []Outcome `json:"outcomes"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Process classifies a batch of events. Human labels always win over model
// predictions; with Propagate set, a series with exactly one distinct human
// label applies it to all its occurrences at confidence 1.0. Configuration
// errors (bad threshold, artifact mismatch) abort the whole batch; data
// problems degrade per record and are reported as warnings.
func Process(art *classify.Artifact, events []*event.Event, opts Options) (*Result, error) {
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, fmt.Errorf("confidence threshold must be in [0,1], got %g", opts.Threshold)
	}

	result := &Result{Outcomes: make([]Outcome, len(events))}

	for i, e := range events {
		if e.Label.IsHuman() {
			result.Outcomes[i] = Outcome{
				Event:      e,
				Class:      e.Label.Class,
				Confidence: 1.0,
				Human:      true,
			}
			continue
		}

		if e.Title == "" && e.Description == "" {
			result.Warnings = append(result.Warnings, Warning{
				EventID: e.ID,
				Message: "no title or description, classified on remaining fields",
			})
		}

		class, confidence, err := art.Predict(e)
		if err != nil {
			// Dimensionality or artifact problems poison every record
			// equally, so stop instead of emitting mislabeled output
			return nil, fmt.Errorf("classifying event %s: %w", e.ID, err)
		}

		result.Outcomes[i] = Outcome{
			Event:      e,
			Class:      class,
			Confidence: confidence,
			Review:     confidence < opts.Threshold,
		}
	}

	if opts.Propagate {
		propagate(events, result)
	}

	return result, nil
}

// propagate copies a series' unique human label onto every occurrence.
// A series whose reviewers disagree is left untouched and reported.
// Grouping never reorders the outcomes.
func propagate(events []*event.Event, result *Result) {
	for seriesID, indices := range event.GroupBySeries(events) {
		classes := make(map[event.Class]bool)
		for _, i := range indices {
			if events[i].Label.IsHuman() {
				classes[events[i].Label.Class] = true
			}
		}
		if len(classes) == 0 {
			continue
		}
		if len(classes) > 1 {
			result.Warnings = append(result.Warnings, Warning{
				EventID: seriesID,
				Message: "conflicting human labels in series, propagation skipped",
			})
			continue
		}

		var label event.Class
		for c := range classes {
			label = c
		}
		for _, i := range indices {
			if result.Outcomes[i].Human {
				continue
			}
			result.Outcomes[i] = Outcome{
				Event:      events[i],
				Class:      label,
				Confidence: 1.0,
				Propagated: true,
			}
		}
	}
}

// FillSeriesLabels is the training-time counterpart of propagation: it
// writes the series' unique human label back onto unlabeled occurrences so
// they count as labeled rows. Returns how many events were filled.
func FillSeriesLabels(events []*event.Event) int {
	filled := 0
	for _, indices := range event.GroupBySeries(events) {
		classes := make(map[event.Class]bool)
		for _, i := range indices {
			if events[i].Label.IsHuman() {
				classes[events[i].Label.Class] = true
			}
		}
		if len(classes) != 1 {
			continue
		}
		var label event.Class
		for c := range classes {
			label = c
		}
		for _, i := range indices {
			if !events[i].Label.IsHuman() {
				events[i].Label = event.HumanLabel(label)
				filled++
			}
		}
	}
	return filled
}

// Collapse keeps one representative occurrence per series, preferring the
// longest description so the richest text trains the model. Used when
// building a training set to keep frequently-recurring events from
// dominating the loss. Events without a series ID pass through untouched;
// first-occurrence order is preserved.
func Collapse(events []*event.Event) []*event.Event {
	best := make(map[string]int)
	order := make([]int, 0, len(events))

	for i, e := range events {
		if e.SeriesID == "" {
			order = append(order, i)
			continue
		}
		if prev, seen := best[e.SeriesID]; seen {
			if len(e.Description) > len(events[prev].Description) {
				best[e.SeriesID] = i
			}
			continue
		}
		best[e.SeriesID] = i
		order = append(order, i)
	}

	out := make([]*event.Event, 0, len(order))
	for _, i := range order {
		if e := events[i]; e.SeriesID == "" {
			out = append(out, e)
		} else {
			out = append(out, events[best[e.SeriesID]])
		}
	}
	return out
}
