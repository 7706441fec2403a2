// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timio-source/timio-research/pkg/types"
)

func init() {
	retryBaseDelay = time.Millisecond
}

// scriptedBackend returns canned responses and errors in order.
type scriptedBackend struct {
	responses []string
	errs      []error
	calls     int

	lastSystem string
	lastUser   string
	lastTokens int
}

func (b *scriptedBackend) Name() string { return "scripted" }

func (b *scriptedBackend) Complete(_ context.Context, system, user string, maxTokens int) (string, error) {
	i := b.calls
	b.calls++
	b.lastSystem, b.lastUser, b.lastTokens = system, user, maxTokens
	if i < len(b.errs) && b.errs[i] != nil {
		return "", b.errs[i]
	}
	if i < len(b.responses) {
		return b.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func testEvidence() []types.ScrapedDocument {
	return []types.ScrapedDocument{
		{
			URL:     "https://news.example.com/earnings",
			Source:  "news.example.com",
			Title:   "Earnings Beat",
			Content: "Quarterly revenue climbed on strong deliveries.",
			Quotes:  []string{"Revenue rose 10%", "Stock jumped 5%"},
		},
		{
			URL:     "https://analysis.example.com/take",
			Source:  "analysis.example.com",
			Content: "Analysts remain cautious.",
		},
	}
}

func TestBuildPromptEnumeratesSources(t *testing.T) {
	system, user := BuildPrompt("Tesla earnings", testEvidence())

	assert.Contains(t, system, "Never invent a quote")
	assert.Contains(t, system, "no quote available")
	assert.Contains(t, system, "conflicting_info")

	assert.Contains(t, user, "Research query: Tesla earnings")
	assert.Contains(t, user, "SOURCE 1: news.example.com")
	assert.Contains(t, user, "URL: https://news.example.com/earnings")
	assert.Contains(t, user, `- "Revenue rose 10%"`)
	assert.Contains(t, user, `- "Stock jumped 5%"`)
	assert.Contains(t, user, "SOURCE 2: analysis.example.com")
	// Sources without quotes get the sentinel instruction.
	assert.Contains(t, user, `use "no quote available" for this source`)
	assert.Less(t, strings.Index(user, "SOURCE 1"), strings.Index(user, "SOURCE 2"))
}

func TestSynthesizeReturnsPayloadUnmodified(t *testing.T) {
	payload := "```json\n{\"article\": {}}\n```"
	backend := &scriptedBackend{responses: []string{payload}}
	s := New(backend, types.SynthesisConfig{MaxTokens: 4096, AIConfig: types.AIConfig{MaxRetries: 3}}, zerolog.Nop())

	got, err := s.Synthesize(context.Background(), "q", testEvidence())

	require.NoError(t, err)
	assert.Equal(t, payload, got, "payload must be handed over untouched")
	assert.Equal(t, 4096, backend.lastTokens)
	assert.Equal(t, 1, backend.calls)
}

func TestSynthesizeRetriesTransientFailures(t *testing.T) {
	backend := &scriptedBackend{
		errs:      []error{errors.New("timeout"), nil},
		responses: []string{"", "{}"},
	}
	s := New(backend, types.SynthesisConfig{AIConfig: types.AIConfig{MaxRetries: 3}}, zerolog.Nop())

	got, err := s.Synthesize(context.Background(), "q", nil)

	require.NoError(t, err)
	assert.Equal(t, "{}", got)
	assert.Equal(t, 2, backend.calls)
}

func TestSynthesizeExhaustsRetries(t *testing.T) {
	boom := errors.New("boom")
	backend := &scriptedBackend{errs: []error{boom, boom, boom}}
	s := New(backend, types.SynthesisConfig{AIConfig: types.AIConfig{MaxRetries: 3}}, zerolog.Nop())

	_, err := s.Synthesize(context.Background(), "q", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, backend.calls)
}

func TestSynthesizeContextCancellation(t *testing.T) {
	backend := &scriptedBackend{errs: []error{errors.New("fail")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(backend, types.SynthesisConfig{AIConfig: types.AIConfig{MaxRetries: 2}}, zerolog.Nop())

	_, err := s.Synthesize(ctx, "q", nil)

	assert.ErrorIs(t, err, context.Canceled)
}
