// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gather collects third-party evidence for a research query: it asks
// a web-search provider for candidate pages, then fetches and extracts
// structured content from those pages concurrently. The extracted quotes are
// the only text later stages may treat as real.
package gather

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/timio-source/timio-research/internal/httputil"
	"github.com/timio-source/timio-research/pkg/types"
)

// Provider searches the web for candidate pages. Implementations wrap a
// single search API per the Strategy pattern so tests can supply a mock.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error)
}

// tavilyAPIBase is the Tavily search endpoint. Declared as a var so tests
// can substitute an httptest server.
var tavilyAPIBase = "https://api.tavily.com/search"

// TavilyProvider queries the Tavily search API.
type TavilyProvider struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *TavilyProvider) Name() string { return "tavily" }

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []struct {
		URL     string  `json:"url"`
		Title   string  `json:"title"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search posts the query to Tavily and returns candidate pages. Results
// without an http(s) URL are discarded.
func (p *TavilyProvider) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      cfg.APIKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: "basic",
	})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("search API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned HTTP %d", resp.StatusCode)
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	var results []types.SearchResult
	for _, r := range parsed.Results {
		if !isWebURL(r.URL) {
			continue
		}
		results = append(results, types.SearchResult{
			URL:     r.URL,
			Title:   strings.TrimSpace(r.Title),
			Snippet: strings.TrimSpace(r.Content),
			Score:   r.Score,
		})
	}
	return results, nil
}

// isWebURL reports whether s parses as an absolute http or https URL.
func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
