// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxivlens/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FeedConfig holds settings for the arXiv feed stage.
type FeedConfig struct {
	HTTPConfig `yaml:",inline"`

	// Query is the arXiv RSS query, e.g. "cs.AI+cs.LG".
	Query string `json:"query" yaml:"query"`

	// MaxResults caps the API search used by the two-day fallback (default 200).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// FallbackDays is the width of the publication-date window used when the
	// feed carries no new announcements (default 2).
	FallbackDays int `json:"fallback_days" yaml:"fallback_days"`
}

// CorpusConfig holds settings for the interest corpus.
type CorpusConfig struct {
	// Dir is the directory holding the corpus database (contains corpus.db).
	Dir string `json:"dir" yaml:"dir"`

	// OverviewPath is the project overview file loaded as a one-document
	// corpus when the store is empty or unused.
	OverviewPath string `json:"overview_path" yaml:"overview_path"`
}

// EmbeddingConfig holds settings for the embedding backend. The endpoint is
// OpenAI-compatible, so a local Ollama or LocalAI server works unchanged.
type EmbeddingConfig struct {
	// BaseURL is the API base, e.g. "http://localhost:11434/v1".
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the embedding model identifier (e.g. "nomic-embed-text").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against hosted endpoints. Local servers ignore it.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout is the per-request timeout (default 90s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// OllamaConfig holds settings for the direct-chat rerank backend.
type OllamaConfig struct {
	// BaseURL is the Ollama server base URL (default "http://localhost:11434").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the chat model name (e.g. "qwen2.5:14b").
	Model string `json:"model" yaml:"model"`

	// Timeout is the per-request timeout (default 90s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Retries is the number of retry attempts after the first request (default 1).
	Retries int `json:"retries" yaml:"retries"`
}

// LangflowMode selects how the workflow-graph backend executes a flow.
type LangflowMode string

const (
	// LangflowHTTP invokes a remote Langflow server over HTTP.
	LangflowHTTP LangflowMode = "http"

	// LangflowLocal executes the flow through an in-process runner.
	LangflowLocal LangflowMode = "local"
)

// LangflowConfig holds settings for the workflow-graph rerank backend.
type LangflowConfig struct {
	// BaseURL is the Langflow server base URL (default "http://localhost:7863").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// FlowID identifies the flow to run (HTTP mode).
	FlowID string `json:"flow_id" yaml:"flow_id"`

	// APIKey is sent as x-api-key when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Mode selects HTTP or local execution (default http).
	Mode LangflowMode `json:"mode" yaml:"mode"`

	// FlowPath is the exported flow file used in local mode.
	FlowPath string `json:"flow_path,omitempty" yaml:"flow_path,omitempty"`

	// Timeout is the per-request timeout (default 90s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Retries is the number of retry attempts after the first request (default 1).
	Retries int `json:"retries" yaml:"retries"`
}

// SearchToolConfig holds settings for the agent's external search tool.
type SearchToolConfig struct {
	// APIKey authenticates against the search API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Engine selects the search engine (default "google").
	Engine string `json:"engine" yaml:"engine"`

	// MaxResults bounds the number of results returned to the model (default 3).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxSnippetLength truncates each result snippet (default 160).
	MaxSnippetLength int `json:"max_snippet_length" yaml:"max_snippet_length"`
}

// AgentConfig holds settings for the tool-agent rerank backend. The chat
// endpoint is OpenAI-compatible (e.g. DeepSeek).
type AgentConfig struct {
	// BaseURL is the chat completions API base, e.g. "https://api.deepseek.com/v1".
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the chat model identifier (e.g. "deepseek-chat").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the chat endpoint.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout is the per-request timeout (default 90s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// SearchTool configures the single bound search tool.
	SearchTool SearchToolConfig `json:"search_tool" yaml:"search_tool"`
}

// RerankConfig holds settings for the LLM rerank stage.
type RerankConfig struct {
	// Enabled turns the LLM rerank stage on or off.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Backend selects the judging strategy: ollama, langflow, or agent.
	Backend string `json:"backend" yaml:"backend"`

	Ollama   OllamaConfig   `json:"ollama" yaml:"ollama"`
	Langflow LangflowConfig `json:"langflow" yaml:"langflow"`
	Agent    AgentConfig    `json:"agent" yaml:"agent"`
}

// FusionConfig holds the score fusion weights. Both default to the
// 0.6 embedding / 0.4 LLM split when left zero.
type FusionConfig struct {
	// EmbedWeight multiplies the min-max normalized embedding score.
	EmbedWeight float64 `json:"embed_weight" yaml:"embed_weight"`

	// LLMWeight multiplies the fit score scaled to [0,1].
	LLMWeight float64 `json:"llm_weight" yaml:"llm_weight"`
}

// PipelineConfig groups all stage configurations for one recommendation run.
type PipelineConfig struct {
	Feed      FeedConfig      `json:"feed" yaml:"feed"`
	Corpus    CorpusConfig    `json:"corpus" yaml:"corpus"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Rerank    RerankConfig    `json:"rerank" yaml:"rerank"`
	Fusion    FusionConfig    `json:"fusion" yaml:"fusion"`

	// TopRetrieve is the number of papers kept after embedding scoring (default 50).
	TopRetrieve int `json:"top_retrieve" yaml:"top_retrieve"`
}
