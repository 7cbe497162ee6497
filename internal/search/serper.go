// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/lexengine/internal/httputil"
	"github.com/pdiddy/lexengine/pkg/types"
)

const serperURL = "https://google.serper.dev/search"

// Serper queries the Serper web search API with strategy-scoped site filters.
type Serper struct {
	endpoint string
	client   *http.Client
}

// NewSerper constructs the production Serper provider.
func NewSerper() *Serper {
	return &Serper{endpoint: serperURL}
}

// NewSerperWithEndpoint overrides the API endpoint; tests point it at an
// httptest server.
func NewSerperWithEndpoint(endpoint string) *Serper {
	return &Serper{endpoint: endpoint}
}

func (s *Serper) Name() string { return "serper" }

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
	GL    string `json:"gl,omitempty"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search issues one strategy-scoped query and converts the organic results
// into scored Sources. Encyclopedic results are dropped even when the API
// returns them despite the exclusion operators.
func (s *Serper) Search(ctx context.Context, query string, strategy Strategy, cfg types.SearchConfig) ([]types.Source, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("serper API key is not configured")
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	locale := cfg.Locale
	if locale == "" {
		locale = "co"
	}

	body := serperRequest{
		Query: scopedQuery(query, strategy),
		Num:   maxResults,
		GL:    locale,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	client := s.client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 2)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper http %d", resp.StatusCode)
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding serper response: %w", err)
	}

	var sources []types.Source
	for _, item := range parsed.Organic {
		if item.Link == "" || Excluded(item.Link) {
			continue
		}
		t := Classify(item.Link)
		if !strategyAccepts(strategy, t) {
			continue
		}
		rel := Relevance(query, item.Title, item.Snippet, item.Link)
		q := QualityFor(rel)
		sources = append(sources, types.Source{
			Title:          item.Title,
			URL:            item.Link,
			Snippet:        item.Snippet,
			Type:           t,
			Quality:        q,
			Authority:      AuthorityFor(t, q),
			Relevance:      rel,
			Currency:       types.CurrencyUnknown,
			RecommendedUse: recommendedUse(t),
		})
	}
	return sources, nil
}

// scopedQuery builds the Serper query string for a strategy: the allow-list
// as site: operators plus explicit Wikipedia exclusion, mirroring how the
// legal vocabulary is forced for the unrestricted strategy.
func scopedQuery(query string, strategy Strategy) string {
	exclusions := "-site:wikipedia.org -site:wikimedia.org -site:wikidata.org"
	switch strategy {
	case StrategyOfficial:
		return fmt.Sprintf("%s Colombia (%s) %s", query, siteFilter(officialDomains), exclusions)
	case StrategyAcademic:
		return fmt.Sprintf("%s Colombia (%s) (investigación OR estudio OR análisis OR doctrina) %s",
			query, siteFilter(academicDomains), exclusions)
	default:
		return fmt.Sprintf("%s Colombia (ley OR decreto OR sentencia OR jurisprudencia OR código OR artículo) %s",
			query, exclusions)
	}
}

func siteFilter(domains []string) string {
	parts := make([]string, len(domains))
	for i, d := range domains {
		parts[i] = "site:" + d
	}
	return strings.Join(parts, " OR ")
}

// strategyAccepts keeps a result only when it matches the strategy's scope.
// The general strategy accepts everything that survived the exclusion list.
func strategyAccepts(strategy Strategy, t types.SourceType) bool {
	switch strategy {
	case StrategyOfficial:
		return t == types.SourceOfficial
	case StrategyAcademic:
		return t == types.SourceAcademic
	default:
		return true
	}
}

func recommendedUse(t types.SourceType) types.RecommendedUse {
	if t == types.SourceOfficial {
		return types.UsePrimaryCitation
	}
	return types.UseSecondary
}
