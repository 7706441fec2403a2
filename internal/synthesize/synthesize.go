// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesize builds a strict prompt from gathered evidence and
// invokes a generative model to produce a candidate report payload. The
// payload is opaque text handed unmodified to the repair engine; no
// parsing happens here.
package synthesize

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/timio-source/timio-research/pkg/types"
)

// Backend is the model-invocation seam. Implementations request a
// JSON-only output mode when the underlying API supports one, but callers
// must not assume it was honored.
type Backend interface {
	Name() string
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// retryBaseDelay is the backoff unit between model call attempts. Tests
// shrink it.
var retryBaseDelay = 2 * time.Second

// Synthesizer produces candidate report payloads from evidence.
type Synthesizer struct {
	backend Backend
	cfg     types.SynthesisConfig
	log     zerolog.Logger
}

// New returns a synthesizer that invokes the given backend.
func New(backend Backend, cfg types.SynthesisConfig, log zerolog.Logger) *Synthesizer {
	return &Synthesizer{backend: backend, cfg: cfg, log: log}
}

// Synthesize builds the prompt for the query and evidence and invokes the
// model, retrying transient failures. The returned payload may be
// malformed; the caller owns recovery.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, evidence []types.ScrapedDocument) (string, error) {
	system, user := BuildPrompt(query, evidence)

	attempts := s.cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		payload, err := s.backend.Complete(ctx, system, user, s.cfg.MaxTokens)
		if err == nil {
			s.log.Debug().
				Str("backend", s.backend.Name()).
				Int("attempt", attempt).
				Int("payload_bytes", len(payload)).
				Msg("synthesis complete")
			return payload, nil
		}
		lastErr = err
		s.log.Warn().Err(err).
			Str("backend", s.backend.Name()).
			Int("attempt", attempt).
			Msg("model call failed")

		if attempt < attempts {
			select {
			case <-time.After(time.Duration(attempt) * retryBaseDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("synthesis failed after %d attempts: %w", attempts, lastErr)
}
