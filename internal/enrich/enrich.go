// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich resolves full text for candidate sources through a layered
// extractor fallback chain: Jina Reader, then a raw fetch with markup
// stripping, then Firecrawl. The first tier whose output clears the
// usefulness threshold wins; when every tier fails the source keeps its
// search snippet and is marked degraded.
package enrich

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/lexengine/pkg/types"
)

const (
	defaultTopK         = 5
	defaultWorkers      = 4
	defaultByteCap      = 20000
	defaultMinUsefulLen = 500
)

// Extractor resolves plain text for one URL. Implementations wrap a single
// extraction service.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, url string) (string, error)
}

// Pipeline runs the fallback chain for each source, bounding concurrency so
// third-party rate limits are respected.
type Pipeline struct {
	extractors []Extractor
	cfg        types.EnrichConfig
}

// NewPipeline constructs a pipeline over the given extractor chain, applied
// in order.
func NewPipeline(cfg types.EnrichConfig, extractors ...Extractor) *Pipeline {
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.ByteCap <= 0 {
		cfg.ByteCap = defaultByteCap
	}
	if cfg.MinUsefulLen <= 0 {
		cfg.MinUsefulLen = defaultMinUsefulLen
	}
	return &Pipeline{extractors: extractors, cfg: cfg}
}

// EnrichTop enriches the first TopK sources of the ranked slice with bounded
// concurrency and returns the full slice: enriched head, untouched tail.
// Individual extraction failures degrade the source rather than failing the
// round; the only error returned is context cancellation.
func (p *Pipeline) EnrichTop(ctx context.Context, sources []types.Source, w io.Writer) ([]types.Source, error) {
	k := p.cfg.TopK
	if k > len(sources) {
		k = len(sources)
	}

	out := make([]types.Source, len(sources))
	copy(out, sources)
	warnings := make([][]string, k)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for i := 0; i < k; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i], warnings[i] = p.enrich(ctx, out[i])
			return nil
		})
	}

	err := g.Wait()
	// Workers never touch w; warnings drain here, serially.
	for _, ws := range warnings {
		for _, warn := range ws {
			fmt.Fprintln(w, warn)
		}
	}
	return out, err
}

// Enrich fills the source's Content through the fallback chain. Content only
// grows: a tier's output is kept only when it is both useful and longer than
// what the source already carries.
func (p *Pipeline) Enrich(ctx context.Context, src types.Source, w io.Writer) types.Source {
	src, warnings := p.enrich(ctx, src)
	for _, warn := range warnings {
		fmt.Fprintln(w, warn)
	}
	return src
}

func (p *Pipeline) enrich(ctx context.Context, src types.Source) (types.Source, []string) {
	var warnings []string
	for _, ex := range p.extractors {
		text, err := ex.Extract(ctx, src.URL)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("warning: %s extraction failed for %s: %v", ex.Name(), src.URL, err))
			continue
		}
		if len(text) > p.cfg.ByteCap {
			text = truncateAtRune(text, p.cfg.ByteCap)
		}
		if len(text) >= p.cfg.MinUsefulLen && len(text) > len(src.Content) {
			src.Content = text
			src.Degraded = false
			return src, warnings
		}
	}

	// Every tier failed or came back too short: keep the snippet.
	if src.Content == "" {
		src.Content = src.Snippet
	}
	src.Degraded = true
	return src, warnings
}

// truncateAtRune cuts s to at most max bytes without splitting a UTF-8 rune.
func truncateAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
