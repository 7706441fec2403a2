// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/rs/zerolog"

	"github.com/timio-source/timio-research/internal/httputil"
	"github.com/timio-source/timio-research/pkg/types"
)

// maxPageBytes caps how much of a page body is read.
const maxPageBytes = 2 << 20

// contentSelectors is the ordered list of content-region heuristics. The
// first selector whose text exceeds the configured minimum length wins;
// a generic paragraph scan is the final fallback.
var contentSelectors = []string{
	"article",
	"main",
	"[role='main']",
	".article-body",
	".post-content",
	"#content",
}

// FetchFunc fetches a URL and returns the raw page body. The scraper's
// default implementation does a real HTTP GET; tests substitute instrumented
// fakes.
type FetchFunc func(ctx context.Context, pageURL string) ([]byte, error)

// Scraper fetches pages with bounded concurrency and extracts structured
// content from each.
type Scraper struct {
	cfg   types.ScrapeConfig
	fetch FetchFunc
	log   zerolog.Logger
}

// NewScraper returns a Scraper using a shared HTTP client with the
// configured per-request timeout and a rotating browser user agent.
func NewScraper(cfg types.ScrapeConfig, log zerolog.Logger) *Scraper {
	client := httputil.NewPageClient(cfg.Timeout)
	s := &Scraper{cfg: cfg, log: log}
	s.fetch = func(ctx context.Context, pageURL string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", httputil.NextUserAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	}
	return s
}

// NewScraperWithFetch returns a Scraper with a custom fetch function.
func NewScraperWithFetch(cfg types.ScrapeConfig, fetch FetchFunc, log zerolog.Logger) *Scraper {
	return &Scraper{cfg: cfg, fetch: fetch, log: log}
}

// ScrapeAll fetches all URLs with bounded concurrency and returns the
// documents that were extracted successfully, in input order. A failed fetch
// never aborts the batch; the URL is logged and excluded from the result.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) []types.ScrapedDocument {
	batch := s.cfg.BatchSize
	if batch <= 0 {
		batch = 3
	}

	docs := make([]*types.ScrapedDocument, len(urls))
	sem := make(chan struct{}, batch)
	var wg sync.WaitGroup

	for i, pageURL := range urls {
		wg.Add(1)
		go func(idx int, pageURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			doc, err := s.Scrape(ctx, pageURL)
			if err != nil {
				s.log.Warn().Str("url", pageURL).Err(err).Msg("scrape failed")
				return
			}
			docs[idx] = doc
		}(i, pageURL)
	}
	wg.Wait()

	var out []types.ScrapedDocument
	for _, d := range docs {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out
}

// Scrape fetches one page and extracts its content, quotes, and metadata.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*types.ScrapedDocument, error) {
	body, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	og := opengraph.NewOpenGraph()
	// ProcessHTML only fails on unreadable input, which a string reader never is.
	og.ProcessHTML(strings.NewReader(string(body)))

	maxQuotes := s.cfg.MaxQuotes
	if maxQuotes <= 0 {
		maxQuotes = 12
	}

	d := &types.ScrapedDocument{
		URL:           pageURL,
		Title:         pageTitle(og, doc),
		Content:       s.extractContent(doc),
		Quotes:        ExtractQuotes(doc, doc.Text(), maxQuotes),
		Author:        metaContent(doc, "meta[name='author']"),
		PublishedDate: metaProperty(doc, "meta[property='article:published_time']"),
		Source:        hostLabel(pageURL),
		ImageURL:      leadImage(og, doc, pageURL),
	}
	return d, nil
}

// extractContent tries the content-region heuristics in order and returns
// the first candidate exceeding the minimum length, truncated to the cap.
func (s *Scraper) extractContent(doc *goquery.Document) string {
	minLen := s.cfg.MinContentLength
	if minLen <= 0 {
		minLen = 200
	}
	maxLen := s.cfg.MaxContentLength
	if maxLen <= 0 {
		maxLen = 5000
	}

	for _, sel := range contentSelectors {
		text := collapseSpace(doc.Find(sel).First().Text())
		if len(text) >= minLen {
			return truncate(text, maxLen)
		}
	}

	// Paragraph fallback: join all <p> text.
	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.TrimSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return truncate(collapseSpace(strings.Join(parts, " ")), maxLen)
}

// pageTitle prefers og:title, then <title>, then the first h1.
func pageTitle(og *opengraph.OpenGraph, doc *goquery.Document) string {
	if og.Title != "" {
		return strings.TrimSpace(og.Title)
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// leadImage returns the page's lead image URL: og:image first, then the
// twitter:image card. Relative URLs are resolved against the page URL.
func leadImage(og *opengraph.OpenGraph, doc *goquery.Document, pageURL string) string {
	var img string
	if len(og.Images) > 0 && og.Images[0].URL != "" {
		img = og.Images[0].URL
	} else {
		img = metaContent(doc, "meta[name='twitter:image']")
	}
	if img == "" {
		return ""
	}
	if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") {
		return img
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	rel, err := url.Parse(img)
	if err != nil {
		return ""
	}
	return base.ResolveReference(rel).String()
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func metaProperty(doc *goquery.Document, selector string) string {
	return metaContent(doc, selector)
}

// hostLabel derives the display source label from a URL host, dropping a
// leading "www.".
func hostLabel(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate caps s at max bytes without splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
