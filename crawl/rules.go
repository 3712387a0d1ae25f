package crawl

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/actapipe/core/source"
)

// IsSameDomain checks if the given URL belongs to the specified domain.
func IsSameDomain(rawURL string, domain string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return parsed.Host == domain
}

// IsDocument reports whether a path or URL has an extension some source reads.
func IsDocument(location string) bool {
	ext := filepath.Ext(location)
	if parsed, err := url.Parse(location); err == nil && parsed.Scheme != "" {
		ext = path.Ext(parsed.Path)
	}
	ext = strings.ToLower(ext)
	for _, e := range source.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// isPage reports whether a URL looks like a navigable index page rather
// than a downloadable document: no extension, or an HTML one.
func isPage(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch strings.ToLower(path.Ext(parsed.Path)) {
	case "", ".html", ".htm", ".php", ".aspx":
		return true
	}
	return false
}

// NormalizeURL strips fragments and trailing slashes for deduplication.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.Fragment = ""
	if parsed.Path != "/" {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}
	return parsed.String()
}
