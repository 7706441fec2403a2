// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timio-source/timio-research/pkg/types"
)

func searchCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		APIKey:     "test-key",
		MaxResults: 10,
	}
}

func TestTavilySearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-key", req.APIKey)
		assert.Equal(t, "Tesla earnings", req.Query)
		assert.Equal(t, 10, req.MaxResults)

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"url": "https://example.com/a", "title": "A", "content": "snippet a", "score": 0.9},
				{"url": "https://example.com/b", "title": "B", "content": "snippet b", "score": 0.7},
			},
		})
	}))
	defer ts.Close()

	old := tavilyAPIBase
	tavilyAPIBase = ts.URL
	defer func() { tavilyAPIBase = old }()

	p := &TavilyProvider{Client: ts.Client()}
	results, err := p.Search(context.Background(), "Tesla earnings", searchCfg())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://example.com/a", results[0].URL)
	assert.Equal(t, "A", results[0].Title)
	assert.Equal(t, 0.9, results[0].Score)
}

func TestTavilySearchDiscardsNonWebURLs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"url": "https://example.com/ok", "title": "OK"},
				{"url": "ftp://example.com/file", "title": "FTP"},
				{"url": "javascript:void(0)", "title": "JS"},
				{"url": "/relative/path", "title": "Relative"},
			},
		})
	}))
	defer ts.Close()

	old := tavilyAPIBase
	tavilyAPIBase = ts.URL
	defer func() { tavilyAPIBase = old }()

	p := &TavilyProvider{Client: ts.Client()}
	results, err := p.Search(context.Background(), "query", searchCfg())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://example.com/ok", results[0].URL)
}

func TestTavilySearchEmptyQuery(t *testing.T) {
	p := &TavilyProvider{Client: http.DefaultClient}
	_, err := p.Search(context.Background(), "   ", searchCfg())
	assert.Error(t, err)
}

func TestTavilySearchServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	old := tavilyAPIBase
	tavilyAPIBase = ts.URL
	defer func() { tavilyAPIBase = old }()

	p := &TavilyProvider{Client: ts.Client()}
	_, err := p.Search(context.Background(), "query", searchCfg())
	assert.Error(t, err)
}

func TestIsWebURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/a", true},
		{"http://example.com", true},
		{"ftp://example.com", false},
		{"javascript:void(0)", false},
		{"/relative", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, isWebURL(tt.url))
		})
	}
}
