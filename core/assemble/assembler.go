// Package assemble flattens styled runs into one marker-annotated string.
// Bold runs are wrapped in BoldOpen/BoldClose so the style survives
// flattening; line and block breaks become explicit newlines.
package assemble

import (
	"strings"

	"github.com/gaurav-prasanna/actapipe/core"
)

// Bold sentinels. The glyph allow-list keeps '*', '-' and 'b', so run text
// could spell them out literally; Assemble removes such occurrences.
const (
	BoldOpen  = "*b-*"
	BoldClose = "*-b*"
)

var markerScrubber = strings.NewReplacer(BoldOpen, "", BoldClose, "")

// RunNormalizer cleans a run before it is emitted.
type RunNormalizer interface {
	Normalize(run core.TextRun) core.TextRun
}

// Assembler builds raw_text from a document.
type Assembler struct {
	normalizer RunNormalizer
}

// New creates an Assembler. A nil normalizer emits run text as-is.
func New(n RunNormalizer) *Assembler {
	return &Assembler{normalizer: n}
}

// Assemble emits each run as "text " or "*b-*text*-b* ", a newline after
// each line and a second newline after each block.
func (a *Assembler) Assemble(doc *core.Document) string {
	var sb strings.Builder
	for _, page := range doc.Pages {
		for _, block := range page.Blocks {
			for _, line := range block.Lines {
				for _, run := range line.Runs {
					if a.normalizer != nil {
						run = a.normalizer.Normalize(run)
					}
					text := scrubMarkers(run.Text)
					if run.Bold {
						sb.WriteString(BoldOpen)
						sb.WriteString(text)
						sb.WriteString(BoldClose)
						sb.WriteByte(' ')
					} else {
						sb.WriteString(text)
						sb.WriteByte(' ')
					}
				}
				sb.WriteByte('\n')
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// scrubMarkers removes literal sentinels, repeating because a removal can
// join the halves of a new one ("**b-*-b*").
func scrubMarkers(s string) string {
	for strings.Contains(s, BoldOpen) || strings.Contains(s, BoldClose) {
		s = markerScrubber.Replace(s)
	}
	return s
}

// Balanced reports whether every BoldOpen is closed by a BoldClose before
// the next BoldOpen, with no stray BoldClose.
func Balanced(s string) bool {
	open := false
	for len(s) > 0 {
		i := strings.IndexByte(s, '*')
		if i < 0 {
			break
		}
		s = s[i:]
		switch {
		case strings.HasPrefix(s, BoldOpen):
			if open {
				return false
			}
			open = true
			s = s[len(BoldOpen):]
		case strings.HasPrefix(s, BoldClose):
			if !open {
				return false
			}
			open = false
			s = s[len(BoldClose):]
		default:
			s = s[1:]
		}
	}
	return !open
}
