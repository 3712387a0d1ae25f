package segment

import (
	"reflect"
	"strings"
	"testing"

	"github.com/gaurav-prasanna/actapipe/core"
)

func pairs(kv ...string) core.Pairs {
	var out core.Pairs
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, core.InterventionPair{Speaker: kv[i], Text: kv[i+1]})
	}
	return out
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name  string
		clean string
		want  core.Pairs
	}{
		{
			name:  "single speaker",
			clean: "*b-* juanes *-b* gracias presidente por la palabra",
			want:  pairs("juanes", "gracias presidente por la palabra"),
		},
		{
			name:  "bill header is never a speaker",
			clean: "*b-* proyecto de ley 045 *-b* texto del proyecto que sigue",
			want:  nil,
		},
		{
			name:  "short bold spans join the pending headline",
			clean: "*b-* doctor *-b* *b-* pérez *-b* buenos días a todos",
			want:  pairs("doctor pérez", "buenos días a todos"),
		},
		{
			name:  "headline over empty body merges",
			clean: "*b-* honorable *-b* *b-* senador juan *-b* tiene la palabra el senador",
			want:  pairs("honorable senador juan", "tiene la palabra el senador"),
		},
		{
			name:  "front matter is dropped",
			clean: "orden del día y llamado a lista *b-* el presidente *-b* se abre la sesión",
			want:  pairs("el presidente", "se abre la sesión"),
		},
		{
			name:  "trailing headline without body is dropped",
			clean: "*b-* el presidente *-b* hola a todos *b-* la secretaria *-b*",
			want:  pairs("el presidente", "hola a todos"),
		},
		{
			name:  "short plain fragment goes to the headline",
			clean: "*b-* el presidente *-b* : *b-* ricardo *-b* se abre la sesión",
			want:  pairs("el presidente : ricardo", "se abre la sesión"),
		},
		{
			name: "multiple speakers in order",
			clean: "*b-* el presidente *-b* tiene la palabra la senadora. " +
				"*b-* senadora maría *-b* gracias, presidente. " +
				"*b-* el presidente *-b* continúe.",
			want: pairs(
				"el presidente", "tiene la palabra la senadora.",
				"senadora maría", "gracias, presidente.",
				"el presidente", "continúe.",
			),
		},
		{
			name:  "excluded span extends open headline",
			clean: "*b-* el secretario *-b* se lee el *b-* proyecto de ley 12 *-b* aprobado en primer debate",
			want:  pairs("el secretario proyecto de ley 12", "se lee el aprobado en primer debate"),
		},
		{
			name:  "no markers",
			clean: "texto sin negritas",
			want:  nil,
		},
		{
			name:  "empty",
			clean: "",
			want:  nil,
		},
	}

	s := New(DefaultRules())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Segment(tt.clean)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segment(%q)\n got %#v\nwant %#v", tt.clean, got, tt.want)
			}
		})
	}
}

func TestSegmentInvariants(t *testing.T) {
	clean := "preámbulo *b-* el presidente *-b* se abre la sesión. *b-* x *-b* " +
		"*b-* la secretaria *-b* hay quórum decisorio. *b-* proyecto *-b* ok " +
		"*b-* senador pérez *-b* pido la palabra para una moción. *b-* cierre *-b*"
	got := New(DefaultRules()).Segment(clean)
	if len(got) == 0 {
		t.Fatal("expected pairs")
	}

	last := -1
	for i, p := range got {
		if strings.TrimSpace(p.Speaker) == "" || strings.TrimSpace(p.Text) == "" {
			t.Errorf("pair %d has empty field: %#v", i, p)
		}
		idx := strings.Index(clean[last+1:], "*b-* "+strings.Fields(p.Speaker)[0])
		if idx < 0 {
			t.Fatalf("pair %d speaker %q not found after offset %d", i, p.Speaker, last)
		}
		last += 1 + idx
	}
}

func TestSegmentCustomRules(t *testing.T) {
	rules := Rules{MinHeadlineLen: 3, MinBodyLen: 2, ExcludedTerms: []string{"orden"}}
	got := New(rules).Segment("*b-* ana *-b* sí *b-* orden del día *-b* no *b-* luis *-b* ok")
	want := pairs("ana orden del día", "sí no", "luis", "ok")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestMachineStates(t *testing.T) {
	m := NewMachine(DefaultRules())
	if m.State() != AwaitingFirstHeadline {
		t.Fatalf("initial state = %s", m.State())
	}
	m.Unmarked("front matter text")
	if m.State() != AwaitingFirstHeadline || m.Headline() != "" {
		t.Fatalf("front matter changed state: %s %q", m.State(), m.Headline())
	}
	m.Marked("  El Presidente ")
	if m.State() != AccumulatingBody || m.Headline() != "el presidente" {
		t.Fatalf("after headline: %s %q", m.State(), m.Headline())
	}
	m.Unmarked(" se abre la sesión ")
	got := m.Finish()
	if !reflect.DeepEqual(got, pairs("el presidente", "se abre la sesión")) {
		t.Errorf("Finish = %#v", got)
	}
	if m.State() != AwaitingFirstHeadline {
		t.Errorf("state after Finish = %s", m.State())
	}
}

func TestSplit(t *testing.T) {
	got := Split("a *b-* b *-b* c *b-* d *-b*")
	want := []Fragment{
		{Text: "a "},
		{Text: " b ", Marked: true},
		{Text: " c "},
		{Text: " d ", Marked: true},
		{Text: ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split = %#v, want %#v", got, want)
	}
}
