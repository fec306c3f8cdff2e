package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "mrd-engine/0.1"). Per prd008-research R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResearchConfig holds settings for the research collection stage.
// Per prd008-research R1.2, R5.1-R5.5.
type ResearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Dir is the base directory for research artifacts
	// (contains sources.yaml and markdown/). Default "research".
	Dir string `json:"dir" yaml:"dir"`

	// Feeds lists RSS/Atom feed URLs consulted by the feed provider.
	Feeds []string `json:"feeds" yaml:"feeds"`

	// EnableNews controls whether the Google News RSS provider is used.
	EnableNews bool `json:"enable_news" yaml:"enable_news"`

	// NewsLang is the Google News language code (default "en-US").
	NewsLang string `json:"news_lang" yaml:"news_lang"`

	// NewsCountry is the Google News country code (default "US").
	NewsCountry string `json:"news_country" yaml:"news_country"`

	// MaxSources is the maximum number of sources to keep (default 12).
	MaxSources int `json:"max_sources" yaml:"max_sources"`

	// RequestDelay is the delay between consecutive feed fetches (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// GenerationConfig holds settings for candidate generation.
// Per prd009-generation R3.1-R3.5, R5.1-R5.3.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// GeminiModel is the Gemini model identifier (e.g. "gemini-2.5-flash").
	GeminiModel string `json:"gemini_model" yaml:"gemini_model"`

	// GeminiAPIKey is the authentication key for the Gemini API.
	GeminiAPIKey string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`

	// MaxTokens caps the response size requested from AI backends (default 8192).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Candidates is the number of drafts generated per run (default 3).
	Candidates int `json:"candidates" yaml:"candidates"`

	// Backends lists the generation backends to rotate through, in order.
	// Known names: claude, gemini, template.
	Backends []string `json:"backends" yaml:"backends"`
}

// MergeConfig holds default ensemble merge options for the CLI.
// Per prd011-ensemble R3.1-R3.4.
type MergeConfig struct {
	// Strategy selects the default merge strategy.
	Strategy MergeStrategy `json:"strategy" yaml:"strategy"`

	// MinConfidence is the default per-section confidence floor.
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`

	// QualityWeight is the default quality/confidence balance for weighted_blend.
	QualityWeight float64 `json:"quality_weight" yaml:"quality_weight"`

	// TieBreaking enables deterministic lexicographic tie-breaking.
	TieBreaking bool `json:"tie_breaking" yaml:"tie_breaking"`
}

// HistoryConfig holds settings for the run history store.
// Per prd014-history R1.2, R2.3.
type HistoryConfig struct {
	// Dir is the base directory for the history database (default "history").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of list/search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// OutputConfig holds settings for pipeline artifacts.
type OutputConfig struct {
	// Dir is the base directory for run artifacts
	// (contains drafts/, candidates/, reports/).
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Research   ResearchConfig   `json:"research" yaml:"research"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Merge      MergeConfig      `json:"merge" yaml:"merge"`
	History    HistoryConfig    `json:"history" yaml:"history"`
	Output     OutputConfig     `json:"output" yaml:"output"`
}
