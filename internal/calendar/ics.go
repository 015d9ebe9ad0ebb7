// Package calendar parses and generates iCalendar (.ics) data for chamber
// events. The chamber's GrowthZone site exposes one ICS file per event; Parse
// turns its VEVENT components into event records.
package calendar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/envisionperdido/perdido-events/internal/event"
)

// Parse reads an iCalendar stream and returns one Event per VEVENT.
// sourceICS and sourcePage record where the data came from.
func Parse(r io.Reader, sourceICS, sourcePage string) ([]*event.Event, error) {
	lines, err := unfold(r)
	if err != nil {
		return nil, fmt.Errorf("reading calendar: %w", err)
	}

	events := make([]*event.Event, 0)
	var props map[string]string
	inEvent := false

	for _, line := range lines {
		switch {
		case line == "BEGIN:VEVENT":
			inEvent = true
			props = make(map[string]string)
		case line == "END:VEVENT":
			if inEvent {
				evt := eventFromProps(props, sourceICS, sourcePage)
				if evt != nil {
					events = append(events, evt)
				}
			}
			inEvent = false
		case inEvent:
			name, value, ok := splitProperty(line)
			if ok {
				props[name] = value
			}
		}
	}

	return events, nil
}

// unfold joins RFC 5545 folded lines: a line starting with a space or tab
// continues the previous one
func unfold(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// splitProperty splits "NAME;PARAM=X:value" into the bare property name and
// its value, discarding parameters except for keeping the raw value intact
func splitProperty(line string) (name, value string, ok bool) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return "", "", false
	}
	name = line[:colon]
	value = line[colon+1:]
	if semi := strings.Index(name, ";"); semi >= 0 {
		name = name[:semi]
	}
	return strings.ToUpper(name), value, true
}

func eventFromProps(props map[string]string, sourceICS, sourcePage string) *event.Event {
	title := unescapeICS(props["SUMMARY"])
	if title == "" {
		return nil
	}

	url := props["URL"]
	if url == "" {
		url = sourcePage
	}

	evt := event.New(
		strings.TrimSpace(props["UID"]),
		title,
		unescapeICS(props["DESCRIPTION"]),
		unescapeICS(props["LOCATION"]),
		unescapeICS(props["CATEGORIES"]),
		url,
		parseICSTime(props["DTSTART"]),
		parseICSTime(props["DTEND"]),
	)
	evt.SourceICS = sourceICS
	return evt
}

// parseICSTime handles the three shapes GrowthZone feeds emit: UTC datetime,
// floating datetime, and all-day date. Unparseable input yields a zero time,
// which downstream code treats as "start unknown" rather than an error.
func parseICSTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// GenerateICS renders one event back to iCalendar form, used for the upload
// preview attached to review reports
func GenerateICS(evt *event.Event) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Envision Perdido//perdido-events//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString("BEGIN:VEVENT\r\n")

	ics.WriteString(fmt.Sprintf("UID:%s@envisionperdido.org\r\n", evt.ID))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(time.Now().UTC())))

	start := evt.Start
	if start.IsZero() {
		start = time.Now().AddDate(0, 0, 7)
	}
	end := evt.End
	if end.IsZero() {
		end = start.Add(2 * time.Hour)
	}
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(end)))

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.Title)))
	if evt.Description != "" {
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(evt.Description)))
	}
	if evt.Location != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(evt.Location)))
	}
	if evt.Category != "" {
		ics.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", escapeICS(evt.Category)))
	}
	if evt.URL != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", evt.URL))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters according to RFC 5545
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// unescapeICS reverses escapeICS
func unescapeICS(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		case ',', ';', '\\':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
