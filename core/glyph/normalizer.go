// Package glyph cleans the text of individual runs before assembly.
// Order is fixed: canonical composition, mojibake repair, compatibility
// folding, invisible-character stripping, escaped-hex artifact removal,
// then allow-list filtering.
package glyph

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gaurav-prasanna/actapipe/core"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// invisible are zero-width, soft-hyphen and line/paragraph separator code points.
var invisible = strings.NewReplacer(
	"\u00ad", "", "\u200b", "", "\u200c", "", "\u200d", "",
	"\u200e", "", "\u200f", "", "\ufeff", "", "\u2028", "", "\u2029", "",
)

// hexArtifact matches textual escape leftovers such as `\xe1` or `/xe1`.
var hexArtifact = regexp.MustCompile(`\\x[0-9a-fA-F]{2}|/x[0-9a-fA-F]{2}`)

// Normalizer is stateless and safe for concurrent use.
type Normalizer struct{}

// New creates a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize returns the run with cleaned text; the bold flag is unchanged.
func (n *Normalizer) Normalize(run core.TextRun) core.TextRun {
	return core.TextRun{Text: n.Clean(run.Text), Bold: run.Bold}
}

// Clean applies every glyph pass to a single string.
func (n *Normalizer) Clean(text string) string {
	text = norm.NFC.String(text)
	text = RepairMojibake(text)
	text = norm.NFKC.String(text)
	text = invisible.Replace(text)
	text = hexArtifact.ReplaceAllString(text, "")
	return strings.Map(func(r rune) rune {
		if Allowed(r) {
			return r
		}
		return -1
	}, text)
}

// Allowed reports whether r survives the character allow-list.
func Allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune(`áéíóúüñÁÉÍÓÚÜÑ.,:;()"'¿?¡!-* `+"\n", r)
}

// mojibakeMarkers are sequences that UTF-8 text produces when its bytes
// are decoded as Windows-1252 or Latin-1.
var mojibakeMarkers = []string{"Ã", "Â", "â€"}

func mojibakeScore(s string) int {
	n := 0
	for _, m := range mojibakeMarkers {
		n += strings.Count(s, m)
	}
	return n
}

// RepairMojibake undoes UTF-8 sequences that were decoded with a
// single-byte codepage. Repairs are local: a marker rune whose codepage
// byte is a UTF-8 lead byte, followed by runes whose bytes complete a valid
// sequence, becomes the rune they encode. Correct text around it is left
// alone. A second pass undoes double encoding.
func RepairMojibake(s string) string {
	for range 2 {
		if mojibakeScore(s) == 0 {
			return s
		}
		s = repairPass(s)
	}
	return s
}

func repairPass(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(runes); {
		if r, n := decodeAt(runes[i:]); n > 0 {
			b.WriteRune(r)
			i += n
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

// decodeAt returns the rune encoded by the codepage bytes of the leading
// runes and how many runes it spans. n is 0 when they do not start with a
// complete mojibake sequence.
func decodeAt(runes []rune) (r rune, n int) {
	var width int
	switch runes[0] {
	case 'Â', 'Ã':
		width = 2
	case 'â':
		width = 3
	default:
		return 0, 0
	}
	if len(runes) < width {
		return 0, 0
	}
	buf := make([]byte, width)
	buf[0], _ = codepageByte(runes[0])
	for i := 1; i < width; i++ {
		c, ok := codepageByte(runes[i])
		if !ok || c < 0x80 || c > 0xBF {
			return 0, 0
		}
		buf[i] = c
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError || size != width {
		return 0, 0
	}
	return r, width
}

// codepageByte maps r back to its Windows-1252 byte. C1 control runes,
// which Latin-1 decoding produces for bytes Windows-1252 leaves undefined,
// map to themselves.
func codepageByte(r rune) (byte, bool) {
	if b, ok := charmap.Windows1252.EncodeRune(r); ok {
		return b, true
	}
	if r >= 0x80 && r <= 0x9f {
		return byte(r), true
	}
	return 0, false
}
