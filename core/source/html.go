package source

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/actapipe/core"
	"github.com/microcosm-cc/bluemonday"
)

// blockTags start and end a block; their text never joins a neighbour's line.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "table": true, "tr": true, "td": true, "th": true,
	"section": true, "article": true,
}

var wsRe = regexp.MustCompile(`\s+`)

// noiseSelectors are removed before walking; site chrome around a
// published transcript contributes no session text.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header", "aside", "form", "button",
	"img", "picture", "figure", "iframe", "video", "audio", "svg",
	".sidebar", ".menu", ".navigation", ".breadcrumb",
}

// boldTags mark their text as bold.
var boldTags = map[string]bool{"b": true, "strong": true}

// HTML reads transcripts published as HTML, where speaker headlines are
// <b> or <strong> spans.
type HTML struct {
	policy *bluemonday.Policy
}

// NewHTML creates an HTML source. The content container is sanitized with
// the bluemonday UGC policy, which drops scripts and styles but keeps text
// markup.
func NewHTML() *HTML {
	return &HTML{policy: bluemonday.UGCPolicy()}
}

// Runs walks the main content in document order. Each block element is a
// block, <br> ends a line.
func (s *HTML) Runs(ctx context.Context, name string, data []byte) (*core.Document, error) {
	fragment, err := extractContent(data)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.policy.Sanitize(fragment)))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b builder
	walk(&b, doc.Find("body"), false)
	return b.finish(name)
}

// extractContent strips site chrome and returns the transcript container
// as an HTML fragment.
func extractContent(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}
	fragment, err := goquery.OuterHtml(content(doc))
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}
	return fragment, nil
}

// content picks the transcript container: <main>, then <article>, then <body>.
func content(doc *goquery.Document) *goquery.Selection {
	for _, tag := range []string{"main", "article"} {
		if sel := doc.Find(tag); sel.Length() > 0 {
			return sel.First()
		}
	}
	return doc.Find("body")
}

func walk(b *builder, sel *goquery.Selection, bold bool) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		switch tag := goquery.NodeName(s); {
		case tag == "#text":
			b.add(wsRe.ReplaceAllString(s.Text(), " "), bold)
		case tag == "br":
			b.endLine()
		case blockTags[tag]:
			b.endBlock()
			walk(b, s, bold)
			b.endBlock()
		case boldTags[tag]:
			walk(b, s, true)
		case strings.HasPrefix(tag, "#"):
			// comments, doctype
		default:
			walk(b, s, bold)
		}
	})
}
