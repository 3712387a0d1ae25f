package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/actapipe/core"
)

// JSON reads documents already rendered to runs by an external tool:
// {"name": "...", "pages": [{"blocks": [{"lines": [{"runs": [{"text": "...", "is_bold": true}]}]}]}]}
type JSON struct{}

// NewJSON creates a JSON source.
func NewJSON() *JSON {
	return &JSON{}
}

// Runs decodes data. Unknown fields are rejected.
func (s *JSON) Runs(ctx context.Context, name string, data []byte) (*core.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc core.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding runs: %w", err)
	}
	if doc.Name == "" {
		doc.Name = name
	}
	if doc.RunCount() == 0 {
		return nil, core.ErrNoText
	}
	return &doc, nil
}
