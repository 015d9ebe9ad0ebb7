// Package feature turns events into fixed-length numeric vectors for the
// community classifier.
//
// The text fields of an event (title, description, location, category) are
// tokenized into unigrams and bigrams and weighted with TF-IDF under a
// vocabulary fitted once at training time. A small block of numeric side
// features (start hour, weekend flag, venue keywords) is appended after the
// text block. A fitted Extractor is immutable and safe for concurrent use.
package feature
