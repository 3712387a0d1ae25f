package segment

import (
	"strings"
	"unicode/utf8"
)

// Rules are the thresholds that decide what counts as a headline and what
// counts as body text. They were tuned on Colombian congressional gazettes.
type Rules struct {
	// MinHeadlineLen is the minimum length of a bold span to open a speaker.
	MinHeadlineLen int `yaml:"min_headline_len"`
	// MinBodyLen is the minimum trimmed length of body text. Shorter plain
	// fragments are merged into the headline, and a new headline arriving
	// over a shorter body extends the current one instead of closing it.
	MinBodyLen int `yaml:"min_body_len"`
	// ExcludedTerms disqualify a bold span from being a speaker label.
	ExcludedTerms []string `yaml:"excluded_terms"`
}

// DefaultRules returns the thresholds used for the gazette corpus.
func DefaultRules() Rules {
	return Rules{
		MinHeadlineLen: 6,
		MinBodyLen:     5,
		ExcludedTerms:  []string{"proyecto"},
	}
}

// IsHeadline reports whether a trimmed, lowercased bold span can be a
// speaker label.
func (r Rules) IsHeadline(candidate string) bool {
	if utf8.RuneCountInString(candidate) < r.MinHeadlineLen {
		return false
	}
	for _, term := range r.ExcludedTerms {
		if term != "" && strings.Contains(candidate, term) {
			return false
		}
	}
	return true
}

// isShort reports whether trimmed text is too short to be body text.
func (r Rules) isShort(text string) bool {
	return utf8.RuneCountInString(text) < r.MinBodyLen
}
