// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/lexengine/internal/httputil"
)

const jinaReaderBase = "https://r.jina.ai/"

// Jina extracts article text through the Jina Reader proxy, which returns
// markdown for arbitrary pages without an API key.
type Jina struct {
	base   string
	client *http.Client
}

// NewJina returns the primary-tier extractor.
func NewJina() *Jina {
	return &Jina{
		base:   jinaReaderBase,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewJinaWithBase is used by tests to point at a local server.
func NewJinaWithBase(base string) *Jina {
	j := NewJina()
	j.base = strings.TrimSuffix(base, "/") + "/"
	return j
}

func (j *Jina) Name() string { return "jina" }

func (j *Jina) Extract(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.base+url, nil)
	if err != nil {
		return "", fmt.Errorf("building jina request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := httputil.DoWithRetry(ctx, j.client, req, 0)
	if err != nil {
		return "", fmt.Errorf("jina reader: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("jina reader returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading jina response: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}
