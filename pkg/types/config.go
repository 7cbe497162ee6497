package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "lexengine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a chat-completion API.
type AIConfig struct {
	// Model is the model identifier (e.g. "alibaba/tongyi-deepresearch-30b-a3b").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the OpenAI-compatible endpoint root
	// (default "https://openrouter.ai/api/v1").
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the Serper search API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the maximum number of results requested per strategy
	// (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Locale biases results toward a jurisdiction (default "co").
	Locale string `json:"locale" yaml:"locale"`
}

// EnrichConfig holds settings for the content enrichment stage.
type EnrichConfig struct {
	HTTPConfig `yaml:",inline"`

	// FirecrawlAPIKey authenticates the tertiary extractor; empty disables it.
	FirecrawlAPIKey string `json:"firecrawl_api_key,omitempty" yaml:"firecrawl_api_key,omitempty"`

	// TopK is how many ranked sources are enriched per round (default 5).
	TopK int `json:"top_k" yaml:"top_k"`

	// Workers bounds concurrent extraction fetches (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// ByteCap truncates extracted content (default 20000 bytes).
	ByteCap int `json:"byte_cap" yaml:"byte_cap"`

	// MinUsefulLen is the minimum extracted length accepted before trying the
	// next fallback tier (default 500).
	MinUsefulLen int `json:"min_useful_len" yaml:"min_useful_len"`
}

// OrchestratorConfig holds the loop budgets and sufficiency thresholds.
type OrchestratorConfig struct {
	// MaxRounds is the requested round budget (default 3). The effective
	// budget is min(MaxRounds, StabilityClamp).
	MaxRounds int `json:"max_rounds" yaml:"max_rounds"`

	// StabilityClamp is the hard round cap applied regardless of what a
	// caller requests (default 3). When the clamp, not sufficiency, ends the
	// loop, the result metadata says so.
	StabilityClamp int `json:"stability_clamp" yaml:"stability_clamp"`

	// MaxSearchesPerRound caps the search strategies issued in one round
	// (default 3).
	MaxSearchesPerRound int `json:"max_searches_per_round" yaml:"max_searches_per_round"`

	// MinOfficialSources is the official-source count the sufficiency rule
	// requires (default 3).
	MinOfficialSources int `json:"min_official_sources" yaml:"min_official_sources"`

	// QualityThreshold is the 0-10 average quality the sufficiency rule
	// requires (default 7).
	QualityThreshold float64 `json:"quality_threshold" yaml:"quality_threshold"`

	// SufficiencyMinRoundReactive is the first round at which reactive mode
	// evaluates sufficiency (default 1).
	SufficiencyMinRoundReactive int `json:"sufficiency_min_round_reactive" yaml:"sufficiency_min_round_reactive"`

	// SufficiencyMinRoundIterative is the first round at which iterative mode
	// evaluates sufficiency (default 3).
	SufficiencyMinRoundIterative int `json:"sufficiency_min_round_iterative" yaml:"sufficiency_min_round_iterative"`

	// SufficiencyMinRoundHybrid is the first round at which hybrid mode
	// evaluates sufficiency (default 2): the opening reactive pass alone
	// never ends a hybrid session.
	SufficiencyMinRoundHybrid int `json:"sufficiency_min_round_hybrid" yaml:"sufficiency_min_round_hybrid"`
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c OrchestratorConfig) WithDefaults() OrchestratorConfig {
	if c.MaxRounds <= 0 {
		c.MaxRounds = 3
	}
	if c.StabilityClamp <= 0 {
		c.StabilityClamp = 3
	}
	if c.MaxSearchesPerRound <= 0 {
		c.MaxSearchesPerRound = 3
	}
	if c.MinOfficialSources <= 0 {
		c.MinOfficialSources = 3
	}
	if c.QualityThreshold <= 0 {
		c.QualityThreshold = 7.0
	}
	if c.SufficiencyMinRoundReactive <= 0 {
		c.SufficiencyMinRoundReactive = 1
	}
	if c.SufficiencyMinRoundIterative <= 0 {
		c.SufficiencyMinRoundIterative = 3
	}
	if c.SufficiencyMinRoundHybrid <= 0 {
		c.SufficiencyMinRoundHybrid = 2
	}
	return c
}

// AuditConfig holds settings for the compliance audit store.
type AuditConfig struct {
	// Dir is the directory holding the audit database (default "audit/").
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations for one engine instance.
type PipelineConfig struct {
	Search       SearchConfig       `json:"search" yaml:"search"`
	Enrich       EnrichConfig       `json:"enrich" yaml:"enrich"`
	AI           AIConfig           `json:"ai" yaml:"ai"`
	Orchestrator OrchestratorConfig `json:"orchestrator" yaml:"orchestrator"`
	Audit        AuditConfig        `json:"audit" yaml:"audit"`
}
