package tokenize

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"drops stopwords and punctuation", "Gracias, señor Presidente, por la palabra.", []string{"gracias", "señor", "presidente", "palabra"}},
		{"drops numbers", "el artículo 45 de la ley 5a", []string{"artículo", "ley"}},
		{"question marks", "¿Quién vota sí?", []string{"vota"}},
		{"empty", "", nil},
		{"only stopwords", "de la y el", []string{}},
	}

	tok := New("quién")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}
