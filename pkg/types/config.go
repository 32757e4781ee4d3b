// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the query and research stages.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey authenticates against the search provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Country is the provider country code for localized results (default "us").
	Country string `json:"country" yaml:"country" mapstructure:"country"`

	// Language is the provider language code (default "en").
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// PerQuery is the number of results requested per search query (default 5).
	PerQuery int `json:"per_query" yaml:"per_query" mapstructure:"per_query"`

	// MaxResults caps the merged, deduplicated result list (default 25).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// InterQueryDelay is the pause between consecutive provider calls
	// (default 500ms).
	InterQueryDelay time.Duration `json:"inter_query_delay" yaml:"inter_query_delay" mapstructure:"inter_query_delay"`
}

// ScrapeConfig holds settings for the content fetcher.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxDocuments stops the research stage once this many non-empty
	// documents have been collected (default 25).
	MaxDocuments int `json:"max_documents" yaml:"max_documents" mapstructure:"max_documents"`

	// MinTextLength discards extracted text shorter than this many
	// characters (default 100).
	MinTextLength int `json:"min_text_length" yaml:"min_text_length" mapstructure:"min_text_length"`
}

// GenerationConfig holds settings for stages that call the language model.
type GenerationConfig struct {
	// Model is the model identifier (e.g. "o3-mini").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the model provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// QueryCount is the number of search queries requested from the model
	// for a topic (default 5).
	QueryCount int `json:"query_count" yaml:"query_count" mapstructure:"query_count"`

	// MinWords and MaxWords bound the acceptable article body length
	// (defaults 1000 and 1500).
	MinWords int `json:"min_words" yaml:"min_words" mapstructure:"min_words"`
	MaxWords int `json:"max_words" yaml:"max_words" mapstructure:"max_words"`
}

// TargetWords returns the word count requested from the model: the midpoint
// of the configured range.
func (c GenerationConfig) TargetWords() int {
	return (c.MinWords + c.MaxWords) / 2
}

// ServerConfig holds settings for the web front end.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search" mapstructure:"search"`
	Scrape     ScrapeConfig     `json:"scrape" yaml:"scrape" mapstructure:"scrape"`
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultConfig returns a PipelineConfig with all defaults applied.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   15 * time.Second,
				UserAgent: "blogsmith/0.1",
			},
			Country:         "us",
			Language:        "en",
			PerQuery:        5,
			MaxResults:      25,
			InterQueryDelay: 500 * time.Millisecond,
		},
		Scrape: ScrapeConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   10 * time.Second,
				UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			},
			MaxDocuments:  25,
			MinTextLength: 100,
		},
		Generation: GenerationConfig{
			Model:      "o3-mini",
			QueryCount: 5,
			MinWords:   1000,
			MaxWords:   1500,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
