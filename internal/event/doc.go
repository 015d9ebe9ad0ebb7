// Package event provides types and functions for chamber calendar events.
//
// The event package handles event representation, series identity, and change
// detection through snapshot-based diffing. Each occurrence is assigned a
// deterministic SHA1-based ID from its UID and start time, and a series ID
// that stays stable across all occurrences of a recurring event, enabling
// reliable tracking and label propagation across runs.
package event
