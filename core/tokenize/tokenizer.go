// Package tokenize turns intervention text into lowercase word tokens for
// downstream modeling. Stopwords, numbers and punctuation are dropped.
// Lemmatization is left to the consumer.
package tokenize

import (
	"strings"
	"unicode"
)

// Tokenizer splits on non-letter runes and filters stopwords.
type Tokenizer struct {
	stopwords map[string]bool
}

// New creates a Tokenizer with the Spanish stopword list plus extra words.
func New(extra ...string) *Tokenizer {
	sw := make(map[string]bool, len(spanishStopwords)+len(extra))
	for _, w := range spanishStopwords {
		sw[w] = true
	}
	for _, w := range extra {
		sw[strings.ToLower(w)] = true
	}
	return &Tokenizer{stopwords: sw}
}

// Tokenize returns the alphabetic, non-stopword tokens of text in order.
func (t *Tokenizer) Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if t.stopwords[w] || !isAlpha(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

func isAlpha(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

var spanishStopwords = []string{
	"a", "al", "algo", "algunas", "algunos", "ante", "antes", "como", "con", "contra",
	"cual", "cuando", "de", "del", "desde", "donde", "durante", "e", "el", "ella",
	"ellas", "ellos", "en", "entre", "era", "erais", "eran", "eras", "eres", "es",
	"esa", "esas", "ese", "eso", "esos", "esta", "estaba", "estaban", "estado", "estamos",
	"estar", "estas", "este", "esto", "estos", "estoy", "está", "están", "fue", "fueron",
	"fui", "ha", "habéis", "había", "habían", "han", "has", "hasta", "hay", "he",
	"hemos", "la", "las", "le", "les", "lo", "los", "me", "mi", "mis",
	"mucho", "muchos", "muy", "más", "mí", "mía", "mías", "mío", "míos", "nada",
	"ni", "no", "nos", "nosotras", "nosotros", "nuestra", "nuestras", "nuestro", "nuestros", "o",
	"os", "otra", "otras", "otro", "otros", "para", "pero", "poco", "por", "porque",
	"que", "quien", "quienes", "qué", "se", "sea", "sean", "ser", "será", "serán",
	"si", "sido", "siendo", "sin", "sobre", "sois", "somos", "son", "soy", "su",
	"sus", "suya", "suyas", "suyo", "suyos", "sí", "también", "tanto", "te", "tenemos",
	"tener", "tengo", "ti", "tiene", "tienen", "todo", "todos", "tu", "tus", "tuya",
	"tuyas", "tuyo", "tuyos", "tú", "un", "una", "uno", "unos", "usted", "ustedes",
	"vosotras", "vosotros", "vuestra", "vuestras", "vuestro", "vuestros", "y", "ya", "yo", "él",
	"éramos", "esté", "estén", "estuvo", "fuera", "haber", "hace", "hacer", "puede", "pues",
}
