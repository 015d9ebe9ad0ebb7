package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/envisionperdido/perdido-events/internal/event"
)

// labelsetHeader is the column layout of the labeling sheet. The label
// column takes 1 (community) or 0 (non-community); anything else is ignored
// on import.
var labelsetHeader = []string{
	"id", "series_id", "title", "description", "location", "category",
	"start", "end", "url", "label",
}

// ExportLabelset writes events to a CSV sheet for manual labeling.
// Already-known human labels are pre-filled so a reviewer only touches the
// blanks.
func ExportLabelset(path string, events []*event.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating labelset: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(labelsetHeader); err != nil {
		return fmt.Errorf("writing labelset header: %w", err)
	}

	for _, e := range events {
		label := ""
		if e.Label.IsHuman() {
			if e.Label.Class == event.Community {
				label = "1"
			} else {
				label = "0"
			}
		}
		row := []string{
			e.ID, e.SeriesID, e.Title, e.Description, e.Location, e.Category,
			formatTime(e.Start), formatTime(e.End), e.URL, label,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing labelset row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// ImportLabels reads a filled-in labelsheet and returns event ID → class for
// every row carrying a recognized label value
func ImportLabels(path string) (map[string]event.Class, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening labelset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate sheets with trimmed trailing columns

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading labelset: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("labelset %s is empty", path)
	}

	idCol, labelCol := columnIndexes(rows[0])
	if idCol < 0 || labelCol < 0 {
		return nil, fmt.Errorf("labelset %s is missing id or label column", path)
	}

	labels := make(map[string]event.Class)
	for _, row := range rows[1:] {
		if len(row) <= idCol || len(row) <= labelCol {
			continue
		}
		class, ok := event.ParseClass(row[labelCol])
		if !ok {
			continue
		}
		labels[row[idCol]] = class
	}

	return labels, nil
}

// ApplyLabels writes imported human labels onto matching events.
// Returns how many events were labeled.
func ApplyLabels(events []*event.Event, labels map[string]event.Class) int {
	applied := 0
	for _, e := range events {
		if class, ok := labels[e.ID]; ok {
			e.Label = event.HumanLabel(class)
			applied++
		}
	}
	return applied
}

func columnIndexes(header []string) (idCol, labelCol int) {
	idCol, labelCol = -1, -1
	for i, name := range header {
		switch name {
		case "id":
			idCol = i
		case "label":
			labelCol = i
		}
	}
	return idCol, labelCol
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
