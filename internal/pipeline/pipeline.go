// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the evidence-to-report flow end to end: search,
// concurrent scraping, model synthesis, response repair, provenance
// validation, and report assembly, wrapped by a TTL result cache. The
// public operation never fails for recoverable conditions; every failure
// path converges to some valid report.
package pipeline

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/timio-source/timio-research/internal/assemble"
	"github.com/timio-source/timio-research/internal/cache"
	"github.com/timio-source/timio-research/internal/gather"
	"github.com/timio-source/timio-research/internal/imagery"
	"github.com/timio-source/timio-research/internal/provenance"
	"github.com/timio-source/timio-research/internal/repair"
	"github.com/timio-source/timio-research/internal/synthesize"
	"github.com/timio-source/timio-research/pkg/types"
)

// Engine owns one configured pipeline. Stages run strictly in sequence;
// concurrency lives inside the scraping stage. Safe for concurrent
// GenerateReport calls: all per-run state is local and the cache is
// internally synchronized.
type Engine struct {
	cfg         types.PipelineConfig
	provider    gather.Provider
	scraper     *gather.Scraper
	synthesizer *synthesize.Synthesizer
	images      imagery.Lookup
	cache       *cache.Cache
	archive     *cache.Archive
	log         zerolog.Logger
}

// Option customizes an Engine, mainly so tests can swap collaborators.
type Option func(*Engine)

// WithProvider replaces the search provider.
func WithProvider(p gather.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithScraper replaces the page scraper.
func WithScraper(s *gather.Scraper) Option {
	return func(e *Engine) { e.scraper = s }
}

// WithSynthesizer replaces the whole synthesizer.
func WithSynthesizer(s *synthesize.Synthesizer) Option {
	return func(e *Engine) { e.synthesizer = s }
}

// WithImages replaces the image lookup.
func WithImages(l imagery.Lookup) Option {
	return func(e *Engine) { e.images = l }
}

// WithArchive attaches a persistent report archive.
func WithArchive(a *cache.Archive) Option {
	return func(e *Engine) { e.archive = a }
}

// New builds an engine with production collaborators derived from the
// config, then applies options.
func New(cfg types.PipelineConfig, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		provider: &gather.TavilyProvider{Client: &http.Client{Timeout: cfg.Search.Timeout}},
		scraper:  gather.NewScraper(cfg.Scrape, log),
		cache:    cache.New(cfg.Cache.TTL),
		log:      log,
	}

	if cfg.Images.APIKey != "" {
		e.images = imagery.NewPexelsClient(cfg.Images)
	} else {
		e.images = imagery.Static{}
	}

	e.synthesizer = synthesize.New(synthesize.NewOpenAIBackend(cfg.Synthesis), cfg.Synthesis, log)

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateReport runs the full pipeline for a query. Within the cache TTL
// the memoized report is returned without any network traffic. The
// returned report is always valid: search, scrape, and synthesis failures
// degrade the result instead of propagating.
func (e *Engine) GenerateReport(ctx context.Context, query, heroImageURL string) *types.ResearchReport {
	if cached, ok := e.cache.Get(query); ok {
		e.log.Debug().Str("query", query).Msg("cache hit")
		return cached
	}

	evidence := e.gather(ctx, query)

	draft := e.synthesizeDraft(ctx, query, evidence)

	for _, w := range provenance.Validate(draft, evidence) {
		e.log.Warn().
			Str("context", w.Context).
			Str("source", w.Source).
			Str("quote", w.Quote).
			Msg("provenance warning")
	}

	report := assemble.Report(ctx, draft, e.images, heroImageURL, query)

	e.cache.Put(query, report)
	if e.archive != nil {
		if err := e.archive.Save(ctx, query, report); err != nil {
			e.log.Warn().Err(err).Msg("archiving report failed")
		}
	}
	return report
}

// gather runs search then concurrent scraping. A search failure degrades
// to an empty evidence set rather than aborting the run.
func (e *Engine) gather(ctx context.Context, query string) []types.ScrapedDocument {
	results, err := e.provider.Search(ctx, query, e.cfg.Search)
	if err != nil {
		e.log.Warn().Err(err).Str("provider", e.provider.Name()).Msg("search failed")
		return nil
	}

	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.URL)
	}
	e.log.Debug().Int("results", len(urls)).Msg("search complete")

	evidence := e.scraper.ScrapeAll(ctx, urls)
	e.log.Debug().Int("documents", len(evidence)).Msg("scraping complete")
	return evidence
}

// synthesizeDraft invokes the model and repairs its response into a
// draft. A failed model call or an empty evidence set yields the degraded
// minimal draft instead of an error.
func (e *Engine) synthesizeDraft(ctx context.Context, query string, evidence []types.ScrapedDocument) *types.ReportDraft {
	if len(evidence) == 0 {
		e.log.Warn().Str("query", query).Msg("no evidence gathered")
		return repair.MinimalDraft()
	}

	payload, err := e.synthesizer.Synthesize(ctx, query, evidence)
	if err != nil {
		e.log.Error().Err(err).Msg("synthesis failed")
		return repair.MinimalDraft()
	}

	draft, outcome := repair.Repair(payload)
	if outcome.Strategy != "direct" {
		e.log.Info().
			Str("strategy", outcome.Strategy).
			Bool("degraded", outcome.Degraded).
			Msg("response repaired")
	}
	return draft
}
