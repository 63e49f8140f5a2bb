package model

import "time"

// Config holds all archigram configuration
type Config struct {
	Ingest      IngestConfig      `yaml:"ingest" mapstructure:"ingest"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Session     SessionConfig     `yaml:"session" mapstructure:"session"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// IngestConfig controls statement normalization
type IngestConfig struct {
	MaxStatementLength int  `yaml:"max_statement_length" mapstructure:"max_statement_length"`
	StripMarkup        bool `yaml:"strip_markup" mapstructure:"strip_markup"`
}

// ExtractConfig controls entity extraction
type ExtractConfig struct {
	Profile         string   `yaml:"profile" mapstructure:"profile"` // generic, web, commerce
	ExtraVocabulary []string `yaml:"extra_vocabulary,omitempty" mapstructure:"extra_vocabulary"`
}

// LLMConfig configures the optional inference hint provider
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout           int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// SessionConfig controls the in-process conversation store
type SessionConfig struct {
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Format  string `yaml:"format" mapstructure:"format"` // json, yaml, markdown
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Ingest: IngestConfig{
			MaxStatementLength: 10000,
			StripMarkup:        true,
		},
		Extract: ExtractConfig{
			Profile: "generic",
		},
		LLM: LLMConfig{
			Provider:          "", // Disabled by default; local rules always work
			Timeout:           30,
			MaxTokens:         256,
			RequestsPerSecond: 1,
			Burst:             3,
		},
		Session: SessionConfig{
			TTL:             2 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}
