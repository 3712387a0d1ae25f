package pipeline

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gaurav-prasanna/actapipe/core"
	"github.com/gaurav-prasanna/actapipe/core/assemble"
	"github.com/gaurav-prasanna/actapipe/core/tokenize"
)

func line(runs ...core.TextRun) core.Line { return core.Line{Runs: runs} }
func bold(s string) core.TextRun          { return core.TextRun{Text: s, Bold: true} }
func plain(s string) core.TextRun         { return core.TextRun{Text: s} }

func block(lines ...core.Line) core.Block { return core.Block{Lines: lines} }

func sessionDoc(name string) *core.Document {
	return &core.Document{
		Name: name,
		Pages: []core.Page{{Blocks: []core.Block{
			block(line(bold("ACTA NÚMERO 12 DE 2020"))),
			block(
				line(plain("Sesión de la Comisión Primera de la Cámara de")),
				line(plain("Representantes, 14 de febrero de 2020.")),
			),
			block(line(bold("El Presidente:"), plain("Se abre la sesión y se llama a lista."))),
			block(
				line(bold("Senador Juan Pérez:")),
				line(plain("Gracias, señor Presidente.")),
			),
		}}},
	}
}

func TestProcess(t *testing.T) {
	rec, err := New(Config{}).Process(context.Background(), sessionDoc("4512"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if rec.Name != "4512" {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.Date == nil || rec.Date.String() != "2020-02-14" {
		t.Errorf("Date = %v", rec.Date)
	}
	if rec.Chamber != core.ChamberHouse || rec.Instance != core.InstanceCommittee {
		t.Errorf("Chamber/Instance = %s/%s", rec.Chamber, rec.Instance)
	}
	if !assemble.Balanced(rec.RawText) {
		t.Errorf("raw text markers unbalanced: %q", rec.RawText)
	}
	if !strings.HasPrefix(rec.CleanText, "sesión de la comisión primera") {
		t.Errorf("CleanText = %q", rec.CleanText)
	}

	want := core.Pairs{
		{Speaker: "el presidente:", Text: "se abre la sesión y se llama a lista."},
		{Speaker: "senador juan pérez:", Text: "gracias, señor presidente."},
	}
	if !reflect.DeepEqual(rec.Pairs, want) {
		t.Errorf("Pairs = %#v, want %#v", rec.Pairs, want)
	}
}

func TestNewDefaultsStripOptions(t *testing.T) {
	// WHAT: a zero Strip config still drops the numbering after the title.
	// WHY: the bold title otherwise leaves a stray close marker up front.
	rec, err := New(Config{Workers: 8}).Process(context.Background(), sessionDoc("defaults"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if strings.HasPrefix(rec.CleanText, assemble.BoldClose) {
		t.Errorf("CleanText = %q", rec.CleanText)
	}
}

func TestProcessEmptyDocument(t *testing.T) {
	_, err := New(Config{}).Process(context.Background(), &core.Document{Name: "empty"})
	if !errors.Is(err, core.ErrNoText) {
		t.Errorf("err = %v, want ErrNoText", err)
	}
}

func TestProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Config{}).Process(ctx, sessionDoc("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func staticInput(name string, delay time.Duration) Input {
	return Input{Name: name, Load: func(ctx context.Context) (*core.Document, error) {
		time.Sleep(delay)
		return sessionDoc(name), nil
	}}
}

func TestBatchOrdersIdsByInput(t *testing.T) {
	// WHAT: ids follow input order even when later inputs finish first.
	// WHY: completion order under concurrency is not deterministic.
	inputs := []Input{
		staticInput("first", 40*time.Millisecond),
		{Name: "broken", Load: func(context.Context) (*core.Document, error) {
			return nil, errors.New("malformed runs")
		}},
		staticInput("second", 0),
		{Name: "panics", Load: func(context.Context) (*core.Document, error) {
			panic("boom")
		}},
		{Name: "blank", Load: func(context.Context) (*core.Document, error) {
			return &core.Document{}, nil
		}},
		staticInput("third", 10*time.Millisecond),
	}

	res := New(Config{Workers: 4}).Batch(context.Background(), inputs)

	if res.RunID == "" {
		t.Error("expected a run id")
	}
	var names []string
	for i, rec := range res.Records {
		if rec.ID != i+1 {
			t.Errorf("record %d has id %d", i, rec.ID)
		}
		names = append(names, rec.Name)
	}
	if !reflect.DeepEqual(names, []string{"first", "second", "third"}) {
		t.Errorf("records = %v", names)
	}

	var failed []string
	for _, f := range res.Failures {
		failed = append(failed, f.Doc)
	}
	if !reflect.DeepEqual(failed, []string{"broken", "panics", "blank"}) {
		t.Errorf("failures = %v", failed)
	}
	if !errors.Is(res.Failures[2], core.ErrNoText) {
		t.Errorf("blank failure = %v, want ErrNoText", res.Failures[2])
	}
}

func TestBatchDocumentTimeout(t *testing.T) {
	inputs := []Input{
		{Name: "stuck", Load: func(ctx context.Context) (*core.Document, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}},
		staticInput("ok", 0),
	}

	res := New(Config{Workers: 2, DocumentTimeout: 50 * time.Millisecond}).
		Batch(context.Background(), inputs)

	if len(res.Records) != 1 || res.Records[0].Name != "ok" || res.Records[0].ID != 1 {
		t.Fatalf("records = %+v", res.Records)
	}
	if len(res.Failures) != 1 || !errors.Is(res.Failures[0], context.DeadlineExceeded) {
		t.Fatalf("failures = %v", res.Failures)
	}
}

func TestFlatten(t *testing.T) {
	records := []*core.SessionRecord{
		{ID: 1, Pairs: core.Pairs{{Speaker: "a", Text: "uno dos"}, {Speaker: "b", Text: "tres"}}},
		{ID: 2},
		{ID: 3, Pairs: core.Pairs{{Speaker: "c", Text: "la votación"}}},
	}

	rows := Flatten(records, tokenize.New())
	want := []core.InterventionRecord{
		{SessionID: 1, InterventionID: 0, Speaker: "a", Text: "uno dos", Tokens: []string{"dos"}},
		{SessionID: 1, InterventionID: 1, Speaker: "b", Text: "tres", Tokens: []string{"tres"}},
		{SessionID: 3, InterventionID: 2, Speaker: "c", Text: "la votación", Tokens: []string{"votación"}},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Flatten = %#v\nwant %#v", rows, want)
	}

	if rows := Flatten(records, nil); rows[0].Tokens != nil {
		t.Errorf("nil tokenizer produced tokens: %v", rows[0].Tokens)
	}
}
