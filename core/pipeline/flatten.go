package pipeline

import "github.com/gaurav-prasanna/actapipe/core"

// Flatten expands records into one row per intervention pair, in
// session-then-pair order. Intervention ids count up from 0 across all
// sessions. A nil tokenizer leaves Tokens empty.
func Flatten(records []*core.SessionRecord, tok core.Tokenizer) []core.InterventionRecord {
	var rows []core.InterventionRecord
	for _, rec := range records {
		for _, pair := range rec.Pairs {
			row := core.InterventionRecord{
				SessionID:      rec.ID,
				InterventionID: len(rows),
				Speaker:        pair.Speaker,
				Text:           pair.Text,
			}
			if tok != nil {
				row.Tokens = tok.Tokenize(pair.Text)
			}
			rows = append(rows, row)
		}
	}
	return rows
}
