// Package pipeline runs documents through every stage:
// assemble → strip → metadata + segment → record.
//
// A single document is processed sequentially with no shared state, so
// batches fan out over a bounded worker pool. Record ids are assigned after
// all workers finish, in input order, never in completion order.
//
// Usage:
//
//	pipe := pipeline.New(pipeline.Config{Workers: 8})
//	res := pipe.Batch(ctx, inputs)
//	rows := pipeline.Flatten(res.Records, nil)
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gaurav-prasanna/actapipe/core"
	"github.com/gaurav-prasanna/actapipe/core/assemble"
	"github.com/gaurav-prasanna/actapipe/core/glyph"
	"github.com/gaurav-prasanna/actapipe/core/metadata"
	"github.com/gaurav-prasanna/actapipe/core/segment"
	"github.com/gaurav-prasanna/actapipe/core/strip"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Config configures the pipeline.
type Config struct {
	Strip   strip.Options
	Rules   segment.Rules
	Workers int
	// DocumentTimeout bounds one document, loading included. 0 disables it.
	DocumentTimeout time.Duration
	Logger          *slog.Logger
}

func (c *Config) defaults() {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Rules.MinHeadlineLen == 0 && c.Rules.MinBodyLen == 0 && c.Rules.ExcludedTerms == nil {
		c.Rules = segment.DefaultRules()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Pipeline turns documents into session records. It is safe for concurrent use.
type Pipeline struct {
	cfg       Config
	logger    *slog.Logger
	assembler *assemble.Assembler
	stripper  *strip.Stripper
	segmenter *segment.Segmenter
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:       cfg,
		logger:    cfg.Logger,
		assembler: assemble.New(glyph.New()),
		stripper:  strip.New(cfg.Strip),
		segmenter: segment.New(cfg.Rules),
	}
}

// Process runs one document through every stage. The returned record has
// no id yet; ids belong to the batch.
func (p *Pipeline) Process(ctx context.Context, doc *core.Document) (rec *core.SessionRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	if doc == nil || doc.RunCount() == 0 {
		return nil, core.ErrNoText
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := p.assembler.Assemble(doc)
	clean := p.stripper.Strip(raw)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec = &core.SessionRecord{
		Name:            doc.Name,
		SessionMetadata: metadata.Extract(clean),
		RawText:         raw,
		CleanText:       clean,
		Pairs:           p.segmenter.Segment(clean),
	}
	p.logger.Debug("processed document",
		"doc", doc.Name, "chamber", rec.Chamber, "type", rec.Instance,
		"dated", rec.Date != nil, "pairs", len(rec.Pairs))
	return rec, nil
}

// Input is one document to process. Load runs inside the worker so that
// parsing is parallel too.
type Input struct {
	Name string
	Load func(ctx context.Context) (*core.Document, error)
}

// BatchResult holds the successful records, numbered 1..n in input order,
// and the documents that failed.
type BatchResult struct {
	RunID    string
	Records  []*core.SessionRecord
	Failures []*core.DocumentError
	Elapsed  time.Duration
}

// Batch processes inputs concurrently. A failing document is logged and
// reported in Failures; it never stops the others.
func (p *Pipeline) Batch(ctx context.Context, inputs []Input) *BatchResult {
	start := time.Now()
	runID := uuid.Must(uuid.NewV7()).String()
	logger := p.logger.With("run_id", runID)

	records := make([]*core.SessionRecord, len(inputs))
	failures := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			rec, err := p.processInput(ctx, in)
			if err != nil {
				logger.Warn("document failed", "doc", in.Name, "err", err)
				failures[i] = err
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	res := &BatchResult{RunID: runID}
	for i, rec := range records {
		if rec == nil {
			res.Failures = append(res.Failures, &core.DocumentError{Doc: inputs[i].Name, Err: failures[i]})
			continue
		}
		rec.ID = len(res.Records) + 1
		res.Records = append(res.Records, rec)
	}
	res.Elapsed = time.Since(start)

	logger.Info("batch finished",
		"documents", len(inputs), "ok", len(res.Records), "failed", len(res.Failures),
		"elapsed", res.Elapsed.Round(time.Millisecond))
	return res
}

type outcome struct {
	rec *core.SessionRecord
	err error
}

// processInput loads and processes one input under the document timeout.
// The stages do not block, so on timeout the worker is released and the
// abandoned computation finishes in the background.
func (p *Pipeline) processInput(ctx context.Context, in Input) (*core.SessionRecord, error) {
	if p.cfg.DocumentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.DocumentTimeout)
		defer cancel()
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		doc, err := in.Load(ctx)
		if err != nil {
			done <- outcome{err: fmt.Errorf("load: %w", err)}
			return
		}
		if doc == nil {
			done <- outcome{err: core.ErrNoText}
			return
		}
		if doc.Name == "" {
			doc.Name = in.Name
		}
		rec, err := p.Process(ctx, doc)
		done <- outcome{rec: rec, err: err}
	}()

	select {
	case o := <-done:
		return o.rec, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
