// Package output handles file naming and writing for rendered sessions
// and the CSV exports of sessions and interventions.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gaurav-prasanna/actapipe/core"
)

// CSV file names written by WriteSessionsCSV and WriteInterventionsCSV.
const (
	SessionsFile      = "sessions.csv"
	InterventionsFile = "interventions.csv"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteSession writes one rendered session. The file is named after the
// document (the gazette number), or session-<id> for unnamed documents.
func (w *Writer) WriteSession(rec *core.SessionRecord, data []byte, ext string) (string, error) {
	name := sanitize(rec.Name)
	if name == "" {
		name = "session-" + strconv.Itoa(rec.ID)
	}
	path := filepath.Join(w.OutputDir, name+ext)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WriteSessionsCSV writes one row per session with the pairs JSON-encoded
// in the last column.
func (w *Writer) WriteSessionsCSV(records []*core.SessionRecord) (string, error) {
	rows := [][]string{{"id", "name", "date", "chamber", "type", "raw_text", "clean_text", "intervention_pairs"}}
	for _, rec := range records {
		date := ""
		if rec.Date != nil {
			date = rec.Date.String()
		}
		rows = append(rows, []string{
			strconv.Itoa(rec.ID), rec.Name, date, string(rec.Chamber), string(rec.Instance),
			rec.RawText, rec.CleanText, rec.Pairs.String(),
		})
	}
	return w.writeCSV(SessionsFile, rows)
}

// WriteInterventionsCSV writes the flattened intervention rows.
func (w *Writer) WriteInterventionsCSV(interventions []core.InterventionRecord) (string, error) {
	rows := [][]string{{"session_id", "intervention_id", "speaker_text", "intervention_text"}}
	for _, iv := range interventions {
		rows = append(rows, []string{
			strconv.Itoa(iv.SessionID), strconv.Itoa(iv.InterventionID), iv.Speaker, iv.Text,
		})
	}
	return w.writeCSV(InterventionsFile, rows)
}

func (w *Writer) writeCSV(name string, rows [][]string) (string, error) {
	path := filepath.Join(w.OutputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

// sanitize replaces characters outside [A-Za-z0-9._-] with underscores.
func sanitize(s string) string {
	out := []rune(s)
	for i, ch := range out {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9',
			ch == '.', ch == '_', ch == '-':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
