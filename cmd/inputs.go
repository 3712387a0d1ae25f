package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gaurav-prasanna/actapipe/core"
	"github.com/gaurav-prasanna/actapipe/core/fetch"
	"github.com/gaurav-prasanna/actapipe/core/pipeline"
	"github.com/gaurav-prasanna/actapipe/core/source"
	"github.com/gaurav-prasanna/actapipe/crawl"
)

// resolveInputs expands arguments into pipeline inputs. Files and document
// URLs are taken as is; directories and index URLs are crawled.
func resolveInputs(ctx context.Context, args []string, fetcher fetch.Fetcher) ([]pipeline.Input, error) {
	var locations []string
	for _, arg := range args {
		if crawl.IsDocument(arg) {
			if !fetch.IsRemote(arg) {
				if _, err := os.Stat(arg); err != nil {
					return nil, err
				}
			}
			locations = append(locations, arg)
			continue
		}
		if !fetch.IsRemote(arg) {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				return nil, fmt.Errorf("unsupported input format: %s", arg)
			}
		}
		found, err := crawl.DiscoverAll(ctx, arg, fetcher)
		if err != nil {
			return nil, fmt.Errorf("discovering documents in %s: %w", arg, err)
		}
		locations = append(locations, found...)
	}

	seen := make(map[string]bool, len(locations))
	inputs := make([]pipeline.Input, 0, len(locations))
	for _, loc := range locations {
		if seen[loc] {
			continue
		}
		seen[loc] = true
		inputs = append(inputs, pipeline.Input{
			Name: source.DocName(loc),
			Load: loader(loc, fetcher),
		})
	}
	return inputs, nil
}

// loader fetches loc and reads it with the source for its extension,
// falling back to the response content type.
func loader(loc string, fetcher fetch.Fetcher) func(context.Context) (*core.Document, error) {
	return func(ctx context.Context) (*core.Document, error) {
		res, err := fetcher.Fetch(ctx, loc)
		if err != nil {
			return nil, err
		}
		src, err := source.ForPath(loc)
		if err != nil {
			if src, err = source.ForContentType(res.ContentType); err != nil {
				return nil, err
			}
		}
		return src.Runs(ctx, source.DocName(loc), res.Data)
	}
}
