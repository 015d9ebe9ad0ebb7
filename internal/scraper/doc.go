// Package scraper fetches chamber calendar events from the GrowthZone site.
//
// The scraper walks the month-view calendar page, collects event detail
// links, locates each event's "Add to Calendar - iCal" link (falling back to
// the conventional /events/ical/{slug}.ics URL), and parses the ICS payloads
// into event records. Requests carry a browser-like user agent, are spaced
// with a polite delay, and retry with exponential backoff.
package scraper
