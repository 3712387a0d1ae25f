// Package core defines the pipeline types and interfaces for ActaPipe.
// Each stage of the pipeline is a clean, testable unit:
// runs → glyph → assemble → strip → (metadata, segment) → record.
package core

import (
	"context"
	"fmt"
	"time"
)

// TextRun is a contiguous span of text sharing one style, as reported by
// the rendering layer.
type TextRun struct {
	Text string `json:"text"`
	Bold bool   `json:"is_bold"`
}

// Line is an ordered sequence of runs laid out on one text line.
type Line struct {
	Runs []TextRun `json:"runs"`
}

// Block is a paragraph-like group of lines.
type Block struct {
	Lines []Line `json:"lines"`
}

// Page is an ordered sequence of blocks.
type Page struct {
	Blocks []Block `json:"blocks"`
}

// Document is the input boundary: one transcript as styled runs.
// Name identifies the input (the gaceta number for file inputs).
type Document struct {
	Name  string `json:"name"`
	Pages []Page `json:"pages"`
}

// RunCount returns the total number of runs in the document.
func (d Document) RunCount() int {
	n := 0
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			for _, l := range b.Lines {
				n += len(l.Runs)
			}
		}
	}
	return n
}

// Date is a calendar date without time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates the components and returns the date.
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, month, day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// String formats the date as ISO 8601 (YYYY-MM-DD).
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse("2006-01-02", string(b))
	if err != nil {
		return fmt.Errorf("parsing date: %w", err)
	}
	*d = Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	return nil
}

// Chamber is the legislative chamber a session belongs to.
type Chamber string

const (
	ChamberHouse  Chamber = "house"
	ChamberSenate Chamber = "senate"
)

// Instance distinguishes committee sessions from plenary ones.
type Instance string

const (
	InstanceCommittee Instance = "committee"
	InstancePlenary   Instance = "plenary"
)

// SessionMetadata is derived once from the clean text.
// Date is nil when no date pattern was found.
type SessionMetadata struct {
	Date     *Date    `json:"date"`
	Chamber  Chamber  `json:"chamber"`
	Instance Instance `json:"type"`
}

// InterventionPair attributes spoken text to a speaker label.
type InterventionPair struct {
	Speaker string
	Text    string
}

// SessionRecord aggregates everything derived from one document.
type SessionRecord struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SessionMetadata
	RawText   string `json:"raw_text"`
	CleanText string `json:"clean_text"`
	Pairs     Pairs  `json:"intervention_pairs"`
}

// InterventionRecord is one flattened row of a session's pairs.
type InterventionRecord struct {
	SessionID      int      `json:"session_id"`
	InterventionID int      `json:"intervention_id"`
	Speaker        string   `json:"speaker_text"`
	Text           string   `json:"intervention_text"`
	Tokens         []string `json:"tokens,omitempty"`
}

// RunSource turns raw document bytes into styled runs.
type RunSource interface {
	Runs(ctx context.Context, name string, data []byte) (*Document, error)
}

// Renderer converts a session record into a final output format.
type Renderer interface {
	Render(rec *SessionRecord) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// Tokenizer turns intervention text into normalized tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}
