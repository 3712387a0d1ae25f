package render

import (
	"fmt"
	"html"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gaurav-prasanna/actapipe/core"
)

// MarkdownRenderer writes a transcript for reading: a heading, the
// metadata line, then one paragraph per intervention with the speaker in
// bold. The record is laid out as HTML and converted, so escaping of
// Markdown syntax in the text is left to the converter.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts the record into Markdown.
func (r *MarkdownRenderer) Render(rec *core.SessionRecord) ([]byte, error) {
	markdown, err := htmltomarkdown.ConvertString(transcriptHTML(rec))
	if err != nil {
		return nil, fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return []byte(markdown + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func transcriptHTML(rec *core.SessionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title(rec)))
	fmt.Fprintf(&b, "<p><em>%s</em></p>\n", html.EscapeString(summary(rec)))
	for _, p := range rec.Pairs {
		fmt.Fprintf(&b, "<p><strong>%s</strong> %s</p>\n",
			html.EscapeString(p.Speaker), html.EscapeString(p.Text))
	}
	return b.String()
}
