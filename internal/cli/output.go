package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/envisionperdido/perdido-events/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// writeJSON outputs any result as indented JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeEventList outputs events as human-readable lines
func writeEventList(w io.Writer, events []*event.Event, prefix string, verbose bool) {
	for _, evt := range events {
		when := "date unknown"
		if !evt.Start.IsZero() {
			when = evt.Start.Format("Mon Jan 2 2006 3:04pm")
		}
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s (%s)\n", prefix, evt.Title, when)
		} else {
			fmt.Fprintf(w, "%s (%s)\n", evt.Title, when)
		}
		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", evt.ID)
			fmt.Fprintf(w, "     Series: %s\n", evt.SeriesID)
			if evt.Location != "" {
				fmt.Fprintf(w, "     Location: %s\n", evt.Location)
			}
			if evt.URL != "" {
				fmt.Fprintf(w, "     URL: %s\n", evt.URL)
			}
		}
	}
}
