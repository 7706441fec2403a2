// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// browserAgents is the rotating User-Agent set for page fetches. News sites
// commonly reject obvious bot agents, so scraping presents as a browser.
var browserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:127.0) Gecko/20100101 Firefox/127.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
}

var agentCounter atomic.Uint64

// NextUserAgent returns the next browser user agent in rotation.
func NextUserAgent() string {
	n := agentCounter.Add(1)
	return browserAgents[int(n)%len(browserAgents)]
}

// maxRedirects caps redirect following on page fetches.
const maxRedirects = 5

// NewPageClient returns an HTTP client for page scraping: timeout applied,
// redirects followed up to a cap.
func NewPageClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}
