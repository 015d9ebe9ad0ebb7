// Package storage provides JSON-based persistence for event snapshots and
// CSV labelsheets.
//
// Snapshots track scraped events across runs so human labels survive
// re-scrapes and new events can be diffed out. Labelsheets are flat CSV
// files a reviewer can open in a spreadsheet, fill the label column of, and
// merge back. The default storage location is ~/.local/share/perdido-events/.
package storage
