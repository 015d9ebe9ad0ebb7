package wordpress

import (
	"strings"

	"github.com/envisionperdido/perdido-events/internal/event"
)

// eventMeta builds the evcal_* metadata EventON expects. Times are written
// both as unix rows and as the date/hour/minute/ampm parts the EventON
// editor reads.
func eventMeta(e *event.Event, locationID int) map[string]any {
	meta := make(map[string]any)

	if !e.Start.IsZero() {
		meta["evcal_srow"] = e.Start.Unix()
		meta["evcal_start_date"] = e.Start.Format("2006-01-02")
		meta["evcal_start_time_hour"] = e.Start.Format("03")
		meta["evcal_start_time_min"] = e.Start.Format("04")
		meta["evcal_start_time_ampm"] = strings.ToLower(e.Start.Format("PM"))
	}
	if !e.End.IsZero() {
		meta["evcal_erow"] = e.End.Unix()
		meta["evcal_end_date"] = e.End.Format("2006-01-02")
		meta["evcal_end_time_hour"] = e.End.Format("03")
		meta["evcal_end_time_min"] = e.End.Format("04")
		meta["evcal_end_time_ampm"] = strings.ToLower(e.End.Format("PM"))
	}
	if e.URL != "" {
		meta["evcal_lmlink"] = e.URL
	}
	if locationID != 0 {
		meta["event_location"] = locationID
	}

	return meta
}
