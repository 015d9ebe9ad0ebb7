// Package cli implements the command-line interface for perdido-events.
//
// The cli package provides the Cobra-based CLI that drives the calendar
// workflow: scraping the chamber site, training and running the community
// classifier, emailing review reports, uploading drafts to the WordPress
// calendar, announcing approved events, and checking calendar health. It
// coordinates the scraper, storage, classify, pipeline, report, wordpress,
// and notifier packages.
package cli
