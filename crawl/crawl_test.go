package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gaurav-prasanna/actapipe/core/fetch"
)

func TestDiscoverLocal(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"2021/0002.pdf",
		"2021/0001.PDF",
		"2020/acta.html",
		"runs/7.json",
		"notes.txt",
		".cache/0003.pdf",
	}
	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := DiscoverAll(context.Background(), dir, fetch.New())
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	want := []string{
		filepath.Join(dir, "2020/acta.html"),
		filepath.Join(dir, "2021/0001.PDF"),
		filepath.Join(dir, "2021/0002.pdf"),
		filepath.Join(dir, "runs/7.json"),
	}
	assertList(t, got, want)
}

func TestDiscoverLocalMissing(t *testing.T) {
	if _, err := DiscoverAll(context.Background(), filepath.Join(t.TempDir(), "nope"), fetch.New()); err == nil {
		t.Error("expected error for a missing root")
	}
}

func TestDiscoverRemoteLinks(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/sitemap.xml", http.NotFound)
	mux.HandleFunc("/gacetas", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/docs/0002.pdf">2</a>
			<a href="docs/0001.pdf#page=3">1</a>
			<a href="/gacetas/2021/">2021</a>
			<a href="https://other.example/0009.pdf">elsewhere</a>
			<a href="mailto:info@example.org">mail</a>
			<a href="/static/logo.png">logo</a>
		</body></html>`)
	})
	mux.HandleFunc("/gacetas/2021", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="/docs/0003.pdf">3</a><a href="/docs/0002.pdf">again</a><a href="/gacetas">up</a>`)
	})

	got, err := DiscoverAll(context.Background(), srv.URL+"/gacetas", fetch.NewWithClient(srv.Client()))
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	want := []string{
		srv.URL + "/docs/0001.pdf",
		srv.URL + "/docs/0002.pdf",
		srv.URL + "/docs/0003.pdf",
	}
	assertList(t, got, want)
}

func TestDiscoverRemoteSitemap(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sitemap.xml" {
			t.Errorf("unexpected request %s with a usable sitemap", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<urlset>
			<url><loc>%[1]s/docs/b.pdf</loc></url>
			<url><loc>%[1]s/docs/a.json</loc></url>
			<url><loc>%[1]s/about</loc></url>
			<url><loc>https://other.example/c.pdf</loc></url>
		</urlset>`, srv.URL)
	}))
	defer srv.Close()

	got, err := DiscoverAll(context.Background(), srv.URL+"/", fetch.NewWithClient(srv.Client()))
	if err != nil {
		t.Fatalf("DiscoverAll: %v", err)
	}
	assertList(t, got, []string{srv.URL + "/docs/a.json", srv.URL + "/docs/b.pdf"})
}

func TestRules(t *testing.T) {
	docs := map[string]bool{
		"a/b/1234.pdf":                  true,
		"https://x.gov.co/g/1234.PDF":   true,
		"https://x.gov.co/g/1234.pdf?d": true,
		"https://x.gov.co/g/":           false,
		"notes.txt":                     false,
	}
	for in, want := range docs {
		if got := IsDocument(in); got != want {
			t.Errorf("IsDocument(%q) = %v, want %v", in, got, want)
		}
	}

	if got := NormalizeURL("https://x.gov.co/g/#top"); got != "https://x.gov.co/g" {
		t.Errorf("NormalizeURL = %q", got)
	}
	if !IsSameDomain("https://x.gov.co/a", "x.gov.co") || IsSameDomain("https://y.gov.co/a", "x.gov.co") {
		t.Error("IsSameDomain mismatch")
	}
}

func TestLocations(t *testing.T) {
	l := make(locations)
	if !l.add("https://x.gov.co/b.pdf") || !l.add("https://x.gov.co/a.pdf") {
		t.Fatal("first add reported a repeat")
	}
	if l.add("https://x.gov.co/b.pdf") {
		t.Error("repeat reported as new")
	}
	assertList(t, l.sorted(), []string{"https://x.gov.co/a.pdf", "https://x.gov.co/b.pdf"})
}

func assertList(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d items %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, got[i], want[i])
		}
	}
}
