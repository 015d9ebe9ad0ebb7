package feature

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/envisionperdido/perdido-events/internal/event"
)

// Options control tokenization and vocabulary pruning. The same options are
// stored in the artifact and reused at inference time.
type Options struct {
	MinTokenLength int     `json:"min_token_length"`
	MinDocFreq     int     `json:"min_doc_freq"`
	MaxDocRatio    float64 `json:"max_doc_ratio"`
	Bigrams        bool    `json:"bigrams"`
	SublinearTF    bool    `json:"sublinear_tf"`
}

// DefaultOptions returns the vectorizer settings used for training
func DefaultOptions() Options {
	return Options{
		MinTokenLength: 2,
		MinDocFreq:     2,
		MaxDocRatio:    0.9,
		Bigrams:        true,
		SublinearTF:    true,
	}
}

// Venue keyword flags appended after the text block, in index order
var venueFlags = []struct {
	Name    string
	pattern *regexp.Regexp
}{
	{"venue_library", regexp.MustCompile(`\blibrary\b`)},
	{"venue_park", regexp.MustCompile(`\bpark\b`)},
	{"venue_church", regexp.MustCompile(`\bchurch\b`)},
	{"venue_museum", regexp.MustCompile(`\bmuseum\b|gallery`)},
}

// NumNumeric is the size of the numeric block: hour, weekend, venue flags
const NumNumeric = 2 + 4

// Extractor is a fitted vocabulary-based feature transform. It is immutable
// after Fit and safe to share across goroutines.
type Extractor struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	NumericScale []float64      `json:"numeric_scale"`
	Opts         Options        `json:"options"`
}

// Dim returns the total vector dimensionality: vocabulary plus numeric block
func (x *Extractor) Dim() int {
	return len(x.IDF) + len(x.NumericScale)
}

// Text concatenates the classified text fields of an event, field-separated
// so tokens never bleed across field boundaries
func Text(e *event.Event) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{e.Title, e.Description, e.Location, e.Category} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// Fit builds a vocabulary and IDF weights from the training events and fits
// the numeric feature scales. Deterministic: the same corpus and options
// always produce the same extractor.
func Fit(events []*event.Event, opts Options) *Extractor {
	n := len(events)

	// Document frequencies
	df := make(map[string]int)
	numeric := make([][NumNumeric]float64, n)
	for i, e := range events {
		tokens := Tokenize(Text(e), opts.MinTokenLength)
		seen := make(map[string]bool)
		for _, term := range terms(tokens, opts.Bigrams) {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
		numeric[i] = numericFeatures(e)
	}

	// Prune by document frequency, then assign indices in sorted term order
	// so the mapping does not depend on map iteration
	maxDF := n
	if opts.MaxDocRatio > 0 && opts.MaxDocRatio < 1 {
		maxDF = int(opts.MaxDocRatio * float64(n))
	}
	kept := make([]string, 0, len(df))
	for term, count := range df {
		if count >= opts.MinDocFreq && count <= maxDF {
			kept = append(kept, term)
		}
	}
	sort.Strings(kept)

	vocab := make(map[string]int, len(kept))
	idf := make([]float64, len(kept))
	for i, term := range kept {
		vocab[term] = i
		idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	return &Extractor{
		Vocabulary:   vocab,
		IDF:          idf,
		NumericScale: fitScales(numeric),
		Opts:         opts,
	}
}

// Transform maps an event to a feature vector under the fitted vocabulary.
// Out-of-vocabulary tokens are silently dropped; an event whose text shares
// nothing with the vocabulary yields a zero text block, not an error.
func (x *Extractor) Transform(e *event.Event) Vector {
	tokens := Tokenize(Text(e), x.Opts.MinTokenLength)

	counts := make(map[int]float64)
	for _, term := range terms(tokens, x.Opts.Bigrams) {
		if idx, ok := x.Vocabulary[term]; ok {
			counts[idx]++
		}
	}

	indices := make([]int, 0, len(counts)+NumNumeric)
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices), len(indices)+NumNumeric)
	var norm float64
	for i, idx := range indices {
		tf := counts[idx]
		if x.Opts.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		v := tf * x.IDF[idx]
		values[i] = v
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range values {
			values[i] /= norm
		}
	}

	numeric := numericFeatures(e)
	base := len(x.IDF)
	for j, v := range numeric {
		if v == 0 {
			continue
		}
		indices = append(indices, base+j)
		values = append(values, v/x.NumericScale[j])
	}

	return Vector{Indices: indices, Values: values, Dim: x.Dim()}
}

// numericFeatures computes the side-feature block for one event:
// start hour (-1 when unknown), weekend flag, then venue keyword flags
func numericFeatures(e *event.Event) [NumNumeric]float64 {
	var f [NumNumeric]float64
	f[0] = -1
	if !e.Start.IsZero() {
		f[0] = float64(e.Start.Hour())
		wd := e.Start.Weekday()
		if wd == 0 || wd == 6 { // Sunday or Saturday
			f[1] = 1
		}
	}
	loc := strings.ToLower(e.Location)
	for j, flag := range venueFlags {
		if flag.pattern.MatchString(loc) {
			f[2+j] = 1
		}
	}
	return f
}

// fitScales computes per-feature standard deviations used to scale the
// numeric block, with zero-variance features pinned to scale 1
func fitScales(rows [][NumNumeric]float64) []float64 {
	scales := make([]float64, NumNumeric)
	n := float64(len(rows))
	if n == 0 {
		for j := range scales {
			scales[j] = 1
		}
		return scales
	}
	for j := 0; j < NumNumeric; j++ {
		var sum, sumSq float64
		for i := range rows {
			sum += rows[i][j]
			sumSq += rows[i][j] * rows[i][j]
		}
		mean := sum / n
		variance := sumSq/n - mean*mean
		if variance > 1e-12 {
			scales[j] = math.Sqrt(variance)
		} else {
			scales[j] = 1
		}
	}
	return scales
}
