package core

import (
	"encoding/json"
	"fmt"
)

// Pairs is the ordered segmentation result of one document.
// It serializes as a JSON list of two-element lists: [["label","text"], ...].
type Pairs []InterventionPair

// MarshalJSON implements json.Marshaler.
func (p Pairs) MarshalJSON() ([]byte, error) {
	tuples := make([][2]string, len(p))
	for i, pair := range p {
		tuples[i] = [2]string{pair.Speaker, pair.Text}
	}
	return json.Marshal(tuples)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pairs) UnmarshalJSON(data []byte) error {
	var tuples [][]string
	if err := json.Unmarshal(data, &tuples); err != nil {
		return fmt.Errorf("decoding intervention pairs: %w", err)
	}
	out := make(Pairs, 0, len(tuples))
	for i, t := range tuples {
		if len(t) != 2 {
			return fmt.Errorf("intervention pair %d: want 2 elements, got %d", i, len(t))
		}
		out = append(out, InterventionPair{Speaker: t[0], Text: t[1]})
	}
	*p = out
	return nil
}

// String returns the persisted single-column form of the pairs.
func (p Pairs) String() string {
	b, err := p.MarshalJSON()
	if err != nil {
		return "[]"
	}
	return string(b)
}

// ParsePairs is the inverse of Pairs.String.
func ParsePairs(s string) (Pairs, error) {
	var p Pairs
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, err
	}
	return p, nil
}
