package event

import (
	"regexp"
	"strings"
)

var (
	urlTailPattern  = regexp.MustCompile(`[?#].*$`)
	spacePattern    = regexp.MustCompile(`\s+`)
	nonAlnumPattern = regexp.MustCompile(`[^a-z0-9 ]+`)
)

// DeriveSeriesID computes the grouping key that is stable across all
// occurrences of a recurring event. It prefers the feed UID, falls back to
// the normalized event URL, and finally to normalized title and location.
// An empty result means the event cannot be grouped and is treated as a
// series of one.
func DeriveSeriesID(e *Event) string {
	if uid := strings.TrimSpace(e.UID); uid != "" {
		return uid
	}
	if url := normalizeURL(e.URL); url != "" {
		return url
	}
	title := normalizeText(e.Title)
	loc := normalizeText(e.Location)
	if title == "" && loc == "" {
		return ""
	}
	return title + "|" + loc
}

// normalizeURL strips the query string, fragment, and trailing slashes so
// that per-occurrence tracking parameters do not split a series
func normalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	u = urlTailPattern.ReplaceAllString(u, "")
	return strings.TrimRight(u, "/")
}

// normalizeText lowercases, collapses whitespace, and drops everything
// outside [a-z0-9 ] so cosmetic title edits do not split a series
func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
	return nonAlnumPattern.ReplaceAllString(s, "")
}

// GroupBySeries builds an index from series ID to the positions of its
// occurrences, preserving input order within each group. Events without a
// series ID are excluded; callers treat them as series of one.
func GroupBySeries(events []*Event) map[string][]int {
	groups := make(map[string][]int)
	for i, e := range events {
		if e.SeriesID == "" {
			continue
		}
		groups[e.SeriesID] = append(groups[e.SeriesID], i)
	}
	return groups
}
