// Package segment splits clean text at bold-marker boundaries and assigns
// body text to speaker headlines.
package segment

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/actapipe/core"
	"github.com/gaurav-prasanna/actapipe/core/assemble"
)

var markedRe = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(assemble.BoldOpen) + `.*?` + regexp.QuoteMeta(assemble.BoldClose))

// Fragment is one piece of clean text between marker boundaries.
type Fragment struct {
	Text   string
	Marked bool
}

// Split cuts text into alternating unmarked and marked fragments. Marked
// fragments have their markers removed; unmarked ones may be empty.
func Split(text string) []Fragment {
	var out []Fragment
	prev := 0
	for _, loc := range markedRe.FindAllStringIndex(text, -1) {
		out = append(out, Fragment{Text: text[prev:loc[0]]})
		inner := text[loc[0]+len(assemble.BoldOpen) : loc[1]-len(assemble.BoldClose)]
		out = append(out, Fragment{Text: inner, Marked: true})
		prev = loc[1]
	}
	out = append(out, Fragment{Text: text[prev:]})
	return out
}

// Segmenter turns clean text into intervention pairs.
type Segmenter struct {
	rules Rules
}

// New creates a Segmenter with the given rules.
func New(rules Rules) *Segmenter {
	return &Segmenter{rules: rules}
}

// Segment returns the (speaker, text) pairs of clean in reading order.
func (s *Segmenter) Segment(clean string) core.Pairs {
	m := NewMachine(s.rules)
	for _, f := range Split(clean) {
		if f.Marked {
			m.Marked(strings.ReplaceAll(f.Text, assemble.BoldOpen, ""))
		} else {
			m.Unmarked(f.Text)
		}
	}
	return m.Finish()
}
