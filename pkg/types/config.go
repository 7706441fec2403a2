package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is sent with API requests. Page scraping ignores it and
	// rotates through browser user agents instead.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search provider.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the search provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the maximum number of search results to request (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ScrapeConfig holds settings for concurrent page scraping.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// BatchSize bounds the number of in-flight page fetches (default 3).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// MinContentLength is the threshold below which a content-region
	// candidate is rejected and the next heuristic is tried (default 200).
	MinContentLength int `json:"min_content_length" yaml:"min_content_length"`

	// MaxContentLength caps extracted text per document (default 5000).
	MaxContentLength int `json:"max_content_length" yaml:"max_content_length"`

	// MaxQuotes caps the number of quotes kept per document (default 12).
	MaxQuotes int `json:"max_quotes" yaml:"max_quotes"`
}

// AIConfig holds shared settings for stages that call a generative model API.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint; tests point it at a local server.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SynthesisConfig holds settings for the report synthesizer.
type SynthesisConfig struct {
	AIConfig `yaml:",inline"`

	// MaxTokens bounds the model's output length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// ImagesConfig holds settings for illustrative image lookup.
type ImagesConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the image search API. Empty disables
	// lookups and the static fallback images are used instead.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// PerPage is the number of candidate images requested per topic (default 5).
	PerPage int `json:"per_page" yaml:"per_page"`
}

// CacheConfig holds settings for the result cache.
type CacheConfig struct {
	// TTL is how long a cached report stays valid (default 15m).
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// ArchiveDir is the directory for the persistent report archive.
	// Empty disables archiving.
	ArchiveDir string `json:"archive_dir,omitempty" yaml:"archive_dir,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Scrape    ScrapeConfig    `json:"scrape" yaml:"scrape"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
	Images    ImagesConfig    `json:"images" yaml:"images"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
}

// DefaultPipelineConfig returns the pipeline defaults used when no config
// file overrides them.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{Timeout: 15 * time.Second, UserAgent: "timio-research/0.1"},
			MaxResults: 10,
		},
		Scrape: ScrapeConfig{
			HTTPConfig:       HTTPConfig{Timeout: 10 * time.Second},
			BatchSize:        3,
			MinContentLength: 200,
			MaxContentLength: 5000,
			MaxQuotes:        12,
		},
		Synthesis: SynthesisConfig{
			AIConfig:  AIConfig{Model: "gpt-4o", MaxRetries: 3},
			MaxTokens: 4096,
		},
		Images: ImagesConfig{
			HTTPConfig: HTTPConfig{Timeout: 10 * time.Second},
			PerPage:    5,
		},
		Cache: CacheConfig{TTL: 15 * time.Minute},
	}
}
