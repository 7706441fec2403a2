// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesize

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/timio-source/timio-research/pkg/types"
)

// OpenAIBackend invokes an OpenAI-compatible chat completion API.
type OpenAIBackend struct {
	client openai.Client
	model  string
}

// NewOpenAIBackend builds a backend from the synthesis config. BaseURL
// overrides the endpoint for proxies and tests.
func NewOpenAIBackend(cfg types.SynthesisConfig) *OpenAIBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	// The synthesizer owns retries; keep the SDK's own retry loop out of
	// the way.
	opts = append(opts, option.WithMaxRetries(0))

	return &OpenAIBackend{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (b *OpenAIBackend) Name() string { return "openai" }

// Complete performs one chat completion call in JSON output mode and
// returns the raw message text.
func (b *OpenAIBackend) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	req := openai.ChatCompletionNewParams{
		Model: b.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if maxTokens > 0 {
		req.MaxCompletionTokens = openai.Int(int64(maxTokens))
	}

	resp, err := b.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
