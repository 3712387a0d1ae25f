package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/actapipe/core"
)

// JSONRenderer writes the full session record, raw and clean text
// included, with pairs as [speaker, text] tuples.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the record as indented JSON.
func (r *JSONRenderer) Render(rec *core.SessionRecord) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
