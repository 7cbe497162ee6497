// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/lexengine/internal/httputil"
)

const firecrawlScrapeURL = "https://api.firecrawl.dev/v1/scrape"

// Firecrawl is the last-resort extractor, used when both the reader proxy
// and the raw fetch come back empty. Requires an API key; without one the
// extractor reports itself unavailable.
type Firecrawl struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewFirecrawl returns the tertiary-tier extractor. An empty key yields an
// extractor that always errors, so the chain simply skips it.
func NewFirecrawl(apiKey string) *Firecrawl {
	return &Firecrawl{
		apiKey:   apiKey,
		endpoint: firecrawlScrapeURL,
		client:   &http.Client{Timeout: 45 * time.Second},
	}
}

// NewFirecrawlWithEndpoint is used by tests to point at a local server.
func NewFirecrawlWithEndpoint(apiKey, endpoint string) *Firecrawl {
	f := NewFirecrawl(apiKey)
	f.endpoint = endpoint
	return f
}

func (f *Firecrawl) Name() string { return "firecrawl" }

type firecrawlRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type firecrawlResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
}

func (f *Firecrawl) Extract(ctx context.Context, url string) (string, error) {
	if f.apiKey == "" {
		return "", fmt.Errorf("firecrawl API key not configured")
	}

	payload, err := json.Marshal(firecrawlRequest{URL: url, Formats: []string{"markdown"}})
	if err != nil {
		return "", fmt.Errorf("encoding firecrawl request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building firecrawl request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := httputil.DoWithRetry(ctx, f.client, req, 0)
	if err != nil {
		return "", fmt.Errorf("firecrawl scrape: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("firecrawl returned status %d", resp.StatusCode)
	}

	var out firecrawlResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding firecrawl response: %w", err)
	}
	if !out.Success {
		return "", fmt.Errorf("firecrawl reported failure for %s", url)
	}
	return strings.TrimSpace(out.Data.Markdown), nil
}
