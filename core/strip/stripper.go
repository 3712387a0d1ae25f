// Package strip removes page furniture from assembled transcript text and
// normalizes bold markers, whitespace and casing. The passes run in a fixed
// order; later passes assume earlier ones already ran.
package strip

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gaurav-prasanna/actapipe/core/assemble"
)

// DefaultTitleOffset is the width of the numbering that always follows the
// "ACTA NÚMERO <n> DE <year>" title.
const DefaultTitleOffset = 5

// NoTitleOffset keeps every character after the title prologue.
const NoTitleOffset = -1

var (
	mastheadRe  = regexp.MustCompile(`(?i)IMPRENTA\s*NACIONAL\s*DE\s*COLOMBIA.*|www\.\w+\.gov\.co`)
	footerRe    = regexp.MustCompile(`(?i)Página\s*\d+|Edición\s*de.*?páginas`)
	volumeRe    = regexp.MustCompile(`(?im)^\s*Año\s+[ivxlcdm]+\b.*\bN[oº°]\.?\s*\d+.*$`)
	blankRunRe  = regexp.MustCompile(`\n\s*\n`)
	closeOpenRe = regexp.MustCompile(`\*-b\*\s*\n\s*\*b-\*`)
	spacesRe    = regexp.MustCompile(`[ ]{2,}`)
	newlineRe   = regexp.MustCompile(`[ ]*\n[ ]*`)
	titleRe     = regexp.MustCompile(`(?s)^.*?ACTA NÚMERO \d+ DE \d+`)
	strayBoldRe = regexp.MustCompile(`\*b-\*.{0,3}\*-b\*`)
)

const weekdays = `lunes|martes|miércoles|miercoles|jueves|viernes|sábado|sabado|domingo`

// runningHeaderRe matches the page header in either of its two layouts.
var runningHeaderRe = regexp.MustCompile(`(?i)` +
	`\b(?:` + weekdays + `),\s*\d{1,2}\s+de\s+[a-záéíóú]+\s+de\s+\d{4}\s+gaceta del congreso\s+\d+` +
	`|gaceta del congreso\s+\d+\s+\b(?:` + weekdays + `),\s*\d{1,2}\s+de\s+[a-záéíóú]+\s+de\s+\d{4}`)

// Options tunes the stripper.
type Options struct {
	// TitleOffset is how many characters to drop right after the title
	// prologue. Only applied when the prologue is found. Zero selects
	// DefaultTitleOffset; any negative value drops nothing.
	TitleOffset int
}

// Stripper turns raw_text into clean_text.
type Stripper struct {
	opts Options
}

// New creates a Stripper.
func New(opts Options) *Stripper {
	switch {
	case opts.TitleOffset == 0:
		opts.TitleOffset = DefaultTitleOffset
	case opts.TitleOffset < 0:
		opts.TitleOffset = 0
	}
	return &Stripper{opts: opts}
}

// Strip runs every pass over raw and returns the clean text.
// Running it again on its own output changes nothing.
func (s *Stripper) Strip(raw string) string {
	text := RemoveFurniture(raw)
	text = dropUppercaseLines(text)
	text = collapseBlankLines(text)
	text = strings.ReplaceAll(text, "- \n", "")
	text = closeOpenRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, assemble.BoldClose, "\n"+assemble.BoldClose+"\n")
	text = strings.ReplaceAll(text, assemble.BoldOpen, "\n"+assemble.BoldOpen+"\n")
	text = collapseBlankLines(text)
	text = collapseSpaces(text)
	text = strings.TrimSpace(newlineRe.ReplaceAllString(text, " "))
	text = s.stripTitle(text)
	text = RemoveRunningHeader(text)
	text = strayBoldRe.ReplaceAllString(text, "")
	text = strings.ToLower(collapseSpaces(text))
	// A second run would drop the now single line for lacking lowercase.
	if strings.IndexFunc(text, isASCIILower) < 0 {
		return ""
	}
	return text
}

// RemoveFurniture deletes masthead, footer and volume/issue lines.
func RemoveFurniture(text string) string {
	text = mastheadRe.ReplaceAllString(text, "")
	text = footerRe.ReplaceAllString(text, "")
	return volumeRe.ReplaceAllString(text, "")
}

// RemoveRunningHeader deletes "<weekday>, <d> de <month> de <yyyy> gaceta
// del congreso <n>" page headers (and the reversed layout), then collapses
// the spaces they leave behind.
func RemoveRunningHeader(text string) string {
	return collapseSpaces(runningHeaderRe.ReplaceAllString(text, ""))
}

// stripTitle removes everything up to and including the title prologue,
// then the fixed-width numbering after it. Text without a prologue is
// returned unchanged.
func (s *Stripper) stripTitle(text string) string {
	loc := titleRe.FindStringIndex(text)
	if loc == nil {
		return text
	}
	rest := text[loc[1]:]
	for i := 0; i < s.opts.TitleOffset && rest != ""; i++ {
		_, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
	}
	return rest
}

// dropUppercaseLines keeps only lines with at least one ASCII lowercase
// letter. Content lines always have one; all-caps furniture does not.
func dropUppercaseLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.IndexFunc(line, isASCIILower) >= 0 {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func isASCIILower(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLower(r)
}

func collapseBlankLines(text string) string {
	return strings.TrimSpace(blankRunRe.ReplaceAllString(text, "\n"))
}

func collapseSpaces(text string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(text, " "))
}
