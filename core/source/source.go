// Package source implements RunSource for the supported input formats.
// Every source yields pages of blocks of lines of styled runs.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/actapipe/core"
)

// Extensions lists the file extensions a source exists for.
var Extensions = []string{".pdf", ".html", ".htm", ".json"}

// ForPath selects a source from the file extension of path.
func ForPath(path string) (core.RunSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDF(), nil
	case ".html", ".htm":
		return NewHTML(), nil
	case ".json":
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("unsupported input format: %q", filepath.Ext(path))
	}
}

// ForContentType selects a source from a MIME type.
func ForContentType(contentType string) (core.RunSource, error) {
	mt, _, _ := strings.Cut(strings.ToLower(contentType), ";")
	switch strings.TrimSpace(mt) {
	case "application/pdf":
		return NewPDF(), nil
	case "text/html", "application/xhtml+xml":
		return NewHTML(), nil
	case "application/json", "":
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("unsupported content type: %q", contentType)
	}
}

// DocName derives the document name from a path: the base name without
// its extension (the gazette number for archived files).
func DocName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// builder accumulates runs into lines, blocks and pages, dropping empty ones.
type builder struct {
	doc   core.Document
	page  core.Page
	block core.Block
	line  core.Line
}

// add appends text to the current line, merging with the previous run
// when the style is unchanged.
func (b *builder) add(text string, bold bool) {
	if text == "" {
		return
	}
	if n := len(b.line.Runs); n > 0 && b.line.Runs[n-1].Bold == bold {
		b.line.Runs[n-1].Text += text
		return
	}
	b.line.Runs = append(b.line.Runs, core.TextRun{Text: text, Bold: bold})
}

// endLine trims the runs of the current line and keeps the non-empty ones.
func (b *builder) endLine() {
	runs := b.line.Runs[:0]
	for _, r := range b.line.Runs {
		r.Text = strings.TrimSpace(r.Text)
		if r.Text != "" {
			runs = append(runs, r)
		}
	}
	if len(runs) > 0 {
		b.block.Lines = append(b.block.Lines, core.Line{Runs: runs})
	}
	b.line = core.Line{}
}

func (b *builder) endBlock() {
	b.endLine()
	if len(b.block.Lines) > 0 {
		b.page.Blocks = append(b.page.Blocks, b.block)
	}
	b.block = core.Block{}
}

func (b *builder) endPage() {
	b.endBlock()
	if len(b.page.Blocks) > 0 {
		b.doc.Pages = append(b.doc.Pages, b.page)
	}
	b.page = core.Page{}
}

func (b *builder) finish(name string) (*core.Document, error) {
	b.endPage()
	b.doc.Name = name
	if b.doc.RunCount() == 0 {
		return nil, core.ErrNoText
	}
	return &b.doc, nil
}
