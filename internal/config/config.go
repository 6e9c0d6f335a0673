// Package config carries the explicit configuration record threaded through
// the pipeline: namespace, delay settings, catalog path, and LLM endpoint.
// There is no ambient/global state — every pure function in this module
// takes the values it needs as arguments.
package config

import "time"

// DefaultNamespace is the IRI prefix used to mint class/property URIs when
// none is configured on a Schema Card.
const DefaultNamespace = "http://ontorag.local/ns/"

// DefaultModel is the OpenRouter model used when OPENROUTER_MODEL is unset.
const DefaultModel = "openai/gpt-4o-mini"

// LLMConfig configures the chat-completions endpoint used by the LLM adapter.
type LLMConfig struct {
	// APIKey authenticates against the OpenRouter-compatible endpoint.
	APIKey string
	// Model is the chat model identifier.
	Model string
	// BaseURL is the chat-completions endpoint base (no trailing slash).
	BaseURL string
	// AppName and SiteURL are forwarded as OpenRouter attribution headers.
	AppName string
	SiteURL string
	// MinDelay is the minimum time enforced between successive chunk calls.
	MinDelay time.Duration
	// Timeout bounds a single chat-completions request.
	Timeout time.Duration
}

// PipelineConfig configures the ontology-governance pipeline.
type PipelineConfig struct {
	// Namespace is the IRI prefix minted for classes/properties/instances.
	Namespace string
	// OutDir is the root for persistent artifacts (§6.3 of the spec).
	OutDir string
	// CatalogDir is the baseline catalog directory (catalog.json + TTL files).
	CatalogDir string
	// Workers is the configured worker-pool size (ONTORAG_WORKERS or the
	// YAML "workers" key, default 1). The propose command calls the LLM
	// for one chunk at a time and does not read this value.
	Workers int
	// DSN is an optional Postgres connection string. When set, merge
	// persists and loads Schema Card version history through
	// internal/catalogstore instead of relying solely on file artifacts.
	DSN string
}

// Config is the full explicit configuration record for a pipeline run.
type Config struct {
	LLM      LLMConfig
	Pipeline PipelineConfig
	LogPath  string
	LogLevel string
}
