// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search issues domain-scoped legal web searches and returns unified,
// deduplicated, ranked candidate sources. Each strategy (official, academic,
// general) restricts results to a domain allow-list; encyclopedic sources are
// excluded everywhere.
package search

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/lexengine/pkg/types"
)

// Strategy selects which slice of the legal web a query targets.
type Strategy string

const (
	StrategyOfficial Strategy = "official"
	StrategyAcademic Strategy = "academic"
	StrategyGeneral  Strategy = "general"
)

// AllStrategies lists the strategies in priority order.
var AllStrategies = []Strategy{StrategyOfficial, StrategyAcademic, StrategyGeneral}

// Provider executes one strategy-scoped query against a search API. The
// Serper implementation is the production provider; tests supply mocks.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, strategy Strategy, cfg types.SearchConfig) ([]types.Source, error)
}

// Output holds the merged results of one round of strategy fan-out.
type Output struct {
	Sources        []types.Source
	DupsRemoved    int
	StrategyErrors []string
}

// Run fans the query out to all requested strategies concurrently, merges the
// results, deduplicates by normalized URL (first occurrence wins), and sorts
// by (type priority, relevance desc). A failing strategy is collected as a
// warning and never blocks the others.
func Run(ctx context.Context, provider Provider, query string, strategies []Strategy, cfg types.SearchConfig, w io.Writer) (Output, error) {
	if strings.TrimSpace(query) == "" {
		return Output{}, fmt.Errorf("query is empty")
	}
	if provider == nil {
		return Output{}, fmt.Errorf("no search provider configured")
	}
	if len(strategies) == 0 {
		strategies = AllStrategies
	}

	type strategyResult struct {
		strategy Strategy
		sources  []types.Source
		err      error
	}

	ch := make(chan strategyResult, len(strategies))
	var wg sync.WaitGroup

	for _, st := range strategies {
		wg.Add(1)
		go func(st Strategy) {
			defer wg.Done()
			sources, err := provider.Search(ctx, query, st, cfg)
			ch <- strategyResult{strategy: st, sources: sources, err: err}
		}(st)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.Source
	var strategyErrors []string
	for sr := range ch {
		if sr.err != nil {
			msg := fmt.Sprintf("%s: %v", sr.strategy, sr.err)
			strategyErrors = append(strategyErrors, msg)
			fmt.Fprintf(w, "warning: %s search failed: %v\n", sr.strategy, sr.err)
			continue
		}
		all = append(all, sr.sources...)
	}

	deduped, removed := Deduplicate(all)
	Rank(deduped)

	return Output{
		Sources:        deduped,
		DupsRemoved:    removed,
		StrategyErrors: strategyErrors,
	}, nil
}

// Deduplicate merges sources that share a normalized URL. The first
// occurrence wins; richer fields from later duplicates are merged in.
func Deduplicate(sources []types.Source) ([]types.Source, int) {
	seen := make(map[string]int) // normalized URL → index in deduped
	var deduped []types.Source
	removed := 0

	for _, s := range sources {
		key := NormalizeURL(s.URL)
		if key == "" {
			continue
		}
		if idx, ok := seen[key]; ok {
			mergeInto(&deduped[idx], s)
			removed++
			continue
		}
		seen[key] = len(deduped)
		deduped = append(deduped, s)
	}
	return deduped, removed
}

// mergeInto fills empty fields of dst from src and keeps the better scores.
// Content only ever grows: a longer extraction replaces a shorter one, never
// the other way around.
func mergeInto(dst *types.Source, src types.Source) {
	if dst.Title == "" && src.Title != "" {
		dst.Title = src.Title
	}
	if len(src.Snippet) > len(dst.Snippet) {
		dst.Snippet = src.Snippet
	}
	if len(src.Content) > len(dst.Content) {
		dst.Content = src.Content
	}
	if src.Type.Priority() > dst.Type.Priority() {
		dst.Type = src.Type
	}
	if src.Quality > dst.Quality {
		dst.Quality = src.Quality
	}
	if src.Authority.Rank() > dst.Authority.Rank() {
		dst.Authority = src.Authority
	}
	if src.Relevance > dst.Relevance {
		dst.Relevance = src.Relevance
	}
}

// Rank sorts sources in place by (type priority desc, relevance desc), with
// quality as the final tiebreaker.
func Rank(sources []types.Source) {
	sort.SliceStable(sources, func(i, j int) bool {
		if pi, pj := sources[i].Type.Priority(), sources[j].Type.Priority(); pi != pj {
			return pi > pj
		}
		if sources[i].Relevance != sources[j].Relevance {
			return sources[i].Relevance > sources[j].Relevance
		}
		return sources[i].Quality > sources[j].Quality
	})
}

// NormalizeURL lowercases the host, strips a www. prefix, drops fragments and
// query strings, and trims trailing slashes, producing the session-wide
// dedup key.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSuffix(raw, "/"))
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	path := strings.TrimSuffix(u.Path, "/")
	return host + path
}
