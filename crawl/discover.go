// Package crawl discovers transcript documents under a local directory or
// a remote gazette index, keeping discovery separate from the pipeline.
package crawl

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/actapipe/core/fetch"
)

// MaxPages bounds the number of index pages visited on a remote crawl.
const MaxPages = 100

// sitemapURL holds a URL from a sitemap.xml.
type sitemapURL struct {
	Loc string `xml:"loc"`
}

// sitemapIndex is the root element of a sitemap.xml.
type sitemapIndex struct {
	URLs []sitemapURL `xml:"url"`
}

// DiscoverAll lists the documents to process under root, sorted. A local
// root is walked recursively; a remote root is read from its sitemap.xml,
// falling back to following same-domain index links.
func DiscoverAll(ctx context.Context, root string, fetcher fetch.Fetcher) ([]string, error) {
	if !fetch.IsRemote(root) {
		return discoverLocal(ctx, root)
	}

	parsed, err := url.Parse(root)
	if err != nil {
		return nil, fmt.Errorf("parsing root URL: %w", err)
	}
	domain := parsed.Host

	sitemap := fmt.Sprintf("%s://%s/sitemap.xml", parsed.Scheme, domain)
	docs, err := discoverFromSitemap(ctx, sitemap, domain, fetcher)
	if err == nil && len(docs) > 0 {
		return docs, nil
	}
	return discoverFromLinks(ctx, root, domain, fetcher)
}

func discoverLocal(ctx context.Context, root string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsDocument(path) {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(docs)
	return docs, nil
}

// discoverFromSitemap reads sitemap.xml and keeps same-domain document URLs.
func discoverFromSitemap(ctx context.Context, sitemapURL, domain string, fetcher fetch.Fetcher) ([]string, error) {
	res, err := fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	var sitemap sitemapIndex
	if err := xml.Unmarshal(res.Data, &sitemap); err != nil {
		return nil, err
	}

	docs := make(locations)
	for _, u := range sitemap.URLs {
		if IsSameDomain(u.Loc, domain) && IsDocument(u.Loc) {
			docs.add(NormalizeURL(u.Loc))
		}
	}
	return docs.sorted(), nil
}

// discoverFromLinks walks index pages breadth first, collecting links to
// documents and following links to further same-domain pages. Remote HTML
// is always treated as an index, never as a transcript.
func discoverFromLinks(ctx context.Context, start, domain string, fetcher fetch.Fetcher) ([]string, error) {
	start = NormalizeURL(start)
	frontier := []string{start}
	seen := locations{start: true}
	docs := make(locations)

	for n := 0; len(frontier) > 0 && n < MaxPages; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := frontier[0]
		frontier = frontier[1:]

		res, err := fetcher.Fetch(ctx, current)
		if err != nil {
			continue
		}
		links, err := extractLinks(res.Data, current)
		if err != nil {
			continue
		}

		for _, link := range links {
			if !IsSameDomain(link, domain) {
				continue
			}
			link = NormalizeURL(link)
			switch {
			case isPage(link):
				if seen.add(link) {
					frontier = append(frontier, link)
				}
			case IsDocument(link):
				docs.add(link)
			}
		}
	}
	return docs.sorted(), nil
}

// locations is a set of normalized document or page URLs.
type locations map[string]bool

// add reports whether loc was new.
func (l locations) add(loc string) bool {
	if l[loc] {
		return false
	}
	l[loc] = true
	return true
}

func (l locations) sorted() []string {
	out := make([]string, 0, len(l))
	for loc := range l {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// extractLinks extracts all href values from <a> tags, resolving relative URLs.
func extractLinks(html []byte, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	var links []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}
		if resolved := resolveURL(href, base); resolved != "" {
			links = append(links, resolved)
		}
	})

	return links, nil
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}
