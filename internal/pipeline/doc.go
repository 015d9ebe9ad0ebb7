// Package pipeline applies the classifier to batches of events and turns raw
// predictions into review-ready outcomes.
//
// The pipeline classifies every event that no human has labeled, flags
// low-confidence predictions for review against a configurable threshold,
// and optionally propagates a single human label across every occurrence of
// a recurring series, so a weekly event is one editorial decision instead of
// many. Output order always matches input order.
package pipeline
