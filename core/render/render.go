// Package render provides output renderers for session records.
package render

import (
	"fmt"

	"github.com/gaurav-prasanna/actapipe/core"
)

// ForFormat returns the renderer registered for format.
func ForFormat(format string) (core.Renderer, error) {
	switch format {
	case "json":
		return NewJSONRenderer(), nil
	case "markdown", "md":
		return NewMarkdownRenderer(), nil
	case "pdf":
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// title is the heading shared by the human-readable renderers.
func title(rec *core.SessionRecord) string {
	if rec.Name == "" {
		return fmt.Sprintf("Sesión %d", rec.ID)
	}
	return "Gaceta " + rec.Name
}

// summary describes the session metadata on one line; unknown fields are
// shown as "-".
func summary(rec *core.SessionRecord) string {
	date := "-"
	if rec.Date != nil {
		date = rec.Date.String()
	}
	return fmt.Sprintf("date: %s | chamber: %s | type: %s | interventions: %d",
		date, orDash(string(rec.Chamber)), orDash(string(rec.Instance)), len(rec.Pairs))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
