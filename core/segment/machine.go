package segment

import (
	"strings"

	"github.com/gaurav-prasanna/actapipe/core"
)

// State is the position of the Machine in the document.
type State int

const (
	// AwaitingFirstHeadline discards front matter until a speaker appears.
	AwaitingFirstHeadline State = iota
	// AccumulatingBody collects text for the current speaker.
	AccumulatingBody
)

func (s State) String() string {
	switch s {
	case AwaitingFirstHeadline:
		return "awaiting-first-headline"
	case AccumulatingBody:
		return "accumulating-body"
	default:
		return "unknown"
	}
}

// Machine reduces alternating headline/body fragments to intervention
// pairs. Feed fragments in document order, then call Finish.
type Machine struct {
	rules    Rules
	state    State
	headline string
	body     strings.Builder
	pairs    core.Pairs
}

// NewMachine creates a Machine in the AwaitingFirstHeadline state.
func NewMachine(rules Rules) *Machine {
	return &Machine{rules: rules}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Headline returns the pending speaker label, empty before the first one.
func (m *Machine) Headline() string {
	return m.headline
}

// Marked handles the text of a bold span.
func (m *Machine) Marked(text string) {
	candidate := strings.ToLower(strings.TrimSpace(text))

	if !m.rules.IsHeadline(candidate) {
		if m.state == AccumulatingBody {
			m.extendHeadline(candidate)
		}
		return
	}

	switch m.state {
	case AwaitingFirstHeadline:
		m.headline = candidate
		m.state = AccumulatingBody
	case AccumulatingBody:
		body := strings.TrimSpace(m.body.String())
		if m.rules.isShort(body) {
			// A headline split across a false body gap.
			m.extendHeadline(candidate)
		} else {
			m.pairs = append(m.pairs, core.InterventionPair{Speaker: m.headline, Text: body})
			m.headline = candidate
		}
	}
	m.body.Reset()
}

// Unmarked handles plain text between bold spans.
func (m *Machine) Unmarked(text string) {
	if m.state == AwaitingFirstHeadline {
		return
	}
	text = strings.TrimSpace(text)
	if m.rules.isShort(text) {
		m.extendHeadline(text)
		return
	}
	m.body.WriteString(text)
	m.body.WriteByte(' ')
}

// Finish emits the last pending pair, if it has a body, and returns all
// pairs in document order.
func (m *Machine) Finish() core.Pairs {
	if m.state == AccumulatingBody {
		if body := strings.TrimSpace(m.body.String()); body != "" {
			m.pairs = append(m.pairs, core.InterventionPair{Speaker: m.headline, Text: body})
		}
	}
	m.state = AwaitingFirstHeadline
	m.headline = ""
	m.body.Reset()
	return m.pairs
}

func (m *Machine) extendHeadline(fragment string) {
	if fragment == "" {
		return
	}
	m.headline += " " + fragment
}
