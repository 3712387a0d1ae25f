package strip

import (
	"testing"
)

const sampleRaw = "IMPRENTA NACIONAL DE COLOMBIA - www.imprenta.gov.co \n\n" +
	"GACETA DEL CONGRESO \n\n" +
	"*b-*ACTA NÚMERO 12 DE 2020*-b* \n" +
	"(marzo 3) \n\n" +
	"*b-*El Presidente*-b* \n" +
	"Se abre la se- \n" +
	"sión y se llama a lista. \n\n" +
	"*b-*Honorable Senador*-b* \n" +
	"*b-*Juan Pérez:*-b* \n" +
	"Gracias, señor Presidente. \n\n" +
	"Página 2 \n\n"

const sampleClean = "(marzo 3) *b-* el presidente *-b* se abre la sesión y se llama a lista. " +
	"*b-* honorable senador juan pérez: *-b* gracias, señor presidente."

func TestStrip(t *testing.T) {
	got := New(Options{TitleOffset: DefaultTitleOffset}).Strip(sampleRaw)
	if got != sampleClean {
		t.Errorf("Strip:\n got %q\nwant %q", got, sampleClean)
	}
}

func TestStripIdempotent(t *testing.T) {
	s := New(Options{TitleOffset: DefaultTitleOffset})
	inputs := []string{
		sampleRaw,
		"texto *b-*A*-b* *b-*Juan Pérez*-b* resto del texto \n\n*b-*x*-b*\n",
		"martes, 3 de marzo de 2021 gaceta del congreso 45 *b-*el senador*-b* habla",
		"intro *b-*ACTA NÚMERO 5 DE 2020*-b* 42",
		"ACTA NÚMERO 5 DE 2020 12345 Ñ 7",
		"",
	}
	for _, in := range inputs {
		once := s.Strip(in)
		twice := s.Strip(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once %q\ntwice %q", in, once, twice)
		}
	}
}

func TestStripWithoutLettersIsEmpty(t *testing.T) {
	got := New(Options{}).Strip("intro *b-*ACTA NÚMERO 5 DE 2020*-b* 42")
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestStripTitleOffsetDefaults(t *testing.T) {
	in := "*b-*ACTA NÚMERO 12 DE 2020*-b* \n(marzo 3) texto"
	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{"zero selects default", 0, "(marzo 3) texto"},
		{"explicit default", DefaultTitleOffset, "(marzo 3) texto"},
		{"negative keeps everything", NoTitleOffset, "*-b* (marzo 3) texto"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(Options{TitleOffset: tt.offset}).Strip(in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripWithoutTitleKeepsLeadingText(t *testing.T) {
	// WHAT: the post-title offset only applies when the title matched.
	// WHY: an unconditional slice silently drops the first characters.
	got := New(Options{TitleOffset: DefaultTitleOffset}).Strip("Se abre la sesión")
	if got != "se abre la sesión" {
		t.Errorf("got %q", got)
	}
}

func TestStripTitleOffsetClamped(t *testing.T) {
	got := New(Options{TitleOffset: 50}).Strip("*b-*ACTA NÚMERO 1 DE 2020*-b*")
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestStripPasses(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"drops all-caps lines", "GACETA 45\ncontenido real", "contenido real"},
		{"footer", "Edición de 40 páginas\ncontenido", "contenido"},
		{"footer with spelled count", "contenido Edición de veinticuatro páginas final", "contenido final"},
		{"footer without spaces", "contenido Ediciónde 8páginas final", "contenido final"},
		{"joins hyphenated words", "la vota- \nción", "la votación"},
		{"merges adjacent bold spans across lines", "*b-*Doctor*-b* \n*b-*Pérez*-b* dijo", "*b-* doctor pérez *-b* dijo"},
		{"keeps same-line bold spans apart", "*b-*Doctor*-b* *b-*Pérez*-b* dijo", "*b-* doctor *-b* *b-* pérez *-b* dijo"},
		{"removes stray bold pairs", "Texto uno *b-*.*-b* texto dos", "texto uno texto dos"},
		{"removes empty bold pairs", "Texto uno *b-* *-b* texto dos", "texto uno texto dos"},
		{"collapses spaces", "uno    dos \n\n\n tres", "uno dos tres"},
		{"running header", "martes, 3 de marzo de 2021 gaceta del congreso 45 ...", "..."},
	}

	s := New(Options{TitleOffset: DefaultTitleOffset})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Strip(tt.in); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRemoveRunningHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"martes, 3 de marzo de 2021 gaceta del congreso 45 ...", "..."},
		{"gaceta del congreso 45 miércoles, 14 de octubre de 2020 resto", "resto"},
		{"antes Sábado, 1 de agosto de 2020 Gaceta del Congreso 7 después", "antes después"},
		{"sin encabezado", "sin encabezado"},
	}
	for _, tt := range tests {
		if got := RemoveRunningHeader(tt.in); got != tt.want {
			t.Errorf("RemoveRunningHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRemoveFurniture(t *testing.T) {
	in := "Año LXIX - No. 45 Bogotá, D. C.\ncontenido\nIMPRENTA NACIONAL DE\nCOLOMBIA www.imprenta.gov.co\nfin"
	want := "\ncontenido\n\nfin"
	if got := RemoveFurniture(in); got != want {
		t.Errorf("RemoveFurniture = %q, want %q", got, want)
	}
}
