// Package fetch loads raw transcript bytes from local paths or http(s) URLs.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "ActaPipe/1.0 (https://github.com/gaurav-prasanna/actapipe)"

	// MaxBytes caps a single download; gazette PDFs rarely exceed 50 MiB.
	MaxBytes = 128 << 20
)

// Result is a loaded document.
type Result struct {
	Location    string
	ContentType string
	Data        []byte
}

// Fetcher loads documents by location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*Result, error)
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Loader fetches local files from disk and remote ones via HTTP GET.
type Loader struct {
	client *http.Client
}

// New creates a Loader with a sensible timeout.
func New() *Loader {
	return &Loader{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// NewWithClient creates a Loader using client for remote locations.
func NewWithClient(client *http.Client) *Loader {
	return &Loader{client: client}
}

// Fetch retrieves the bytes at location.
func (f *Loader) Fetch(ctx context.Context, location string) (*Result, error) {
	if IsRemote(location) {
		return f.fetchHTTP(ctx, location)
	}
	return fetchFile(ctx, location)
}

func fetchFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &Result{
		Location:    path,
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Data:        data,
	}, nil
}

func (f *Loader) fetchHTTP(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/pdf,text/html,application/xhtml+xml,application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > MaxBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", url, MaxBytes)
	}

	return &Result{
		Location:    url,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        body,
	}, nil
}
