// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imagery resolves decorative images for report topics and cited
// sources. Lookups are best-effort: any failure falls back to a generic
// placeholder so report assembly never blocks on image availability.
package imagery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/timio-source/timio-research/internal/httputil"
	"github.com/timio-source/timio-research/pkg/types"
)

// FallbackSourceImage is used when no image can be resolved for a cited
// source.
const FallbackSourceImage = "https://images.pexels.com/photos/261579/pexels-photo-261579.jpeg"

// Lookup resolves an illustrative image URL for a topic. index selects
// among the candidates returned for the topic so repeated sources do not
// all receive the same image.
type Lookup interface {
	ImageFor(ctx context.Context, topic string, index int) string
}

const pexelsAPIBase = "https://api.pexels.com/v1/search"

// PexelsClient looks up images through the Pexels search API.
type PexelsClient struct {
	cfg    types.ImagesConfig
	client *http.Client
}

// NewPexelsClient returns a Pexels-backed lookup. It degrades to the
// static fallback when no API key is configured.
func NewPexelsClient(cfg types.ImagesConfig) *PexelsClient {
	return &PexelsClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type pexelsPhoto struct {
	Src struct {
		Original string `json:"original"`
		Large    string `json:"large"`
	} `json:"src"`
}

type pexelsResponse struct {
	Photos []pexelsPhoto `json:"photos"`
}

// ImageFor searches Pexels for the topic and returns the candidate at
// index modulo the result count. Any failure returns the fallback image.
func (c *PexelsClient) ImageFor(ctx context.Context, topic string, index int) string {
	if c.cfg.APIKey == "" || topic == "" {
		return FallbackSourceImage
	}

	perPage := c.cfg.PerPage
	if perPage <= 0 {
		perPage = 5
	}
	endpoint := fmt.Sprintf("%s?query=%s&per_page=%d", pexelsAPIBase, url.QueryEscape(topic), perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return FallbackSourceImage
	}
	req.Header.Set("Authorization", c.cfg.APIKey)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 1)
	if err != nil {
		return FallbackSourceImage
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return FallbackSourceImage
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return FallbackSourceImage
	}
	var parsed pexelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Photos) == 0 {
		return FallbackSourceImage
	}

	photo := parsed.Photos[index%len(parsed.Photos)]
	if photo.Src.Original != "" {
		return photo.Src.Original
	}
	if photo.Src.Large != "" {
		return photo.Src.Large
	}
	return FallbackSourceImage
}

// Static always returns the fallback image. It backs runs without an
// image API key and keeps tests offline.
type Static struct{}

func (Static) ImageFor(context.Context, string, int) string { return FallbackSourceImage }
