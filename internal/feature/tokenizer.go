package feature

import (
	"strings"
	"unicode"
)

// Tokenize lowercases the input, replaces punctuation with spaces, and drops
// tokens shorter than minLen runes. The same rule must be applied at fit and
// transform time or vocabulary lookups silently miss.
func Tokenize(s string, minLen int) []string {
	if minLen < 1 {
		minLen = 1
	}
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	fields := strings.Fields(mapped)
	tokens := fields[:0]
	for _, tok := range fields {
		if len([]rune(tok)) >= minLen {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// terms expands tokens into the term sequence counted by the vectorizer:
// the unigrams, plus adjacent-pair bigrams when enabled
func terms(tokens []string, bigrams bool) []string {
	if !bigrams {
		return tokens
	}
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}
