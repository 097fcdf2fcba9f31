package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the Dremio query service.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"5000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Dremio connection
	Dremio DremioConfig `yaml:"dremio"`

	// Natural-language query behavior
	Query QueryConfig `yaml:"query"`

	// Optional AI SQL generation providers
	AI AIConfig `yaml:"ai"`
}

// DremioConfig holds Dremio REST connection settings.
type DremioConfig struct {
	Host     string `yaml:"host" env:"DREMIO_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DREMIO_PORT" env-default:"9047"`
	Username string `yaml:"username" env:"DREMIO_USERNAME" env-default:""`
	Password string `yaml:"-" env:"DREMIO_PASSWORD"` // Secret - not in YAML
	UseSSL   bool   `yaml:"use_ssl" env:"DREMIO_USE_SSL" env-default:"true"`

	// VerifySSL controls certificate verification; CertPath optionally points
	// at a custom CA bundle used when verification is on.
	VerifySSL bool   `yaml:"verify_ssl" env:"DREMIO_VERIFY_SSL" env-default:"true"`
	CertPath  string `yaml:"cert_path" env:"DREMIO_CERT_PATH" env-default:""`

	// Default scoping for table listings (e.g. source "DataMesh",
	// schema "application"). Empty means list everything.
	DefaultSource string `yaml:"default_source" env:"DREMIO_DEFAULT_SOURCE" env-default:""`
	DefaultSchema string `yaml:"default_schema" env:"DREMIO_DEFAULT_SCHEMA" env-default:""`

	// JobTimeoutSeconds bounds how long a submitted SQL job is polled before
	// it is treated as failed.
	JobTimeoutSeconds int `yaml:"job_timeout_seconds" env:"DREMIO_JOB_TIMEOUT_SECONDS" env-default:"300"`

	// JobPollIntervalMS is the delay between job state polls.
	JobPollIntervalMS int `yaml:"job_poll_interval_ms" env:"DREMIO_JOB_POLL_INTERVAL_MS" env-default:"2000"`

	// ResultPageSize is the page size used when fetching job results.
	ResultPageSize int `yaml:"result_page_size" env:"DREMIO_RESULT_PAGE_SIZE" env-default:"500"`
}

// QueryConfig holds knobs consumed by the query pipeline.
type QueryConfig struct {
	// DefaultRowLimit is appended to unbounded SELECTs.
	DefaultRowLimit int `yaml:"default_row_limit" env:"QUERY_DEFAULT_ROW_LIMIT" env-default:"100"`

	// MinResolveScore is the minimum token-overlap score required for a
	// table to be considered resolved.
	MinResolveScore int `yaml:"min_resolve_score" env:"QUERY_MIN_RESOLVE_SCORE" env-default:"1"`

	// PreferShortestPath breaks resolver score ties in favor of the least
	// nested table path. Policy choice, kept configurable.
	PreferShortestPath bool `yaml:"prefer_shortest_path" env:"QUERY_RESOLVER_PREFER_SHORTEST_PATH" env-default:"true"`
}

// AIConfig holds settings for the optional AI SQL providers.
// Provider priority when multiple are configured: Bedrock, then OpenAI,
// then Anthropic. If none is configured the heuristic synthesizer is
// authoritative.
type AIConfig struct {
	Bedrock   BedrockConfig   `yaml:"bedrock"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`

	// TimeoutSeconds bounds each provider call; an exceeded timeout is an
	// ordinary provider failure and falls through to the next generator.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"AI_TIMEOUT_SECONDS" env-default:"30"`
}

// BedrockConfig holds AWS Bedrock settings for SQL generation.
type BedrockConfig struct {
	ModelID         string `yaml:"model_id" env:"BEDROCK_MODEL_ID" env-default:""`
	Region          string `yaml:"region" env:"AWS_REGION" env-default:""`
	AccessKeyID     string `yaml:"-" env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"-" env:"AWS_SECRET_ACCESS_KEY"`
}

// IsAvailable returns true if Bedrock is fully configured.
func (c *BedrockConfig) IsAvailable() bool {
	return c.ModelID != "" && c.Region != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// OpenAIConfig holds OpenAI settings for SQL generation.
type OpenAIConfig struct {
	APIKey string `yaml:"-" env:"OPENAI_API_KEY"`
	Model  string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
}

// IsAvailable returns true if OpenAI is configured.
func (c *OpenAIConfig) IsAvailable() bool { return c.APIKey != "" }

// AnthropicConfig holds direct Anthropic API settings for SQL generation.
type AnthropicConfig struct {
	APIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"`
	Model  string `yaml:"model" env:"ANTHROPIC_MODEL" env-default:"claude-3-5-sonnet-20241022"`
}

// IsAvailable returns true if Anthropic is configured.
func (c *AnthropicConfig) IsAvailable() bool { return c.APIKey != "" }

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config. A missing config.yaml is fine; environment variables and
// defaults apply on their own.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Dremio.Host == "" {
		return fmt.Errorf("dremio host is required")
	}
	if c.Query.DefaultRowLimit <= 0 {
		return fmt.Errorf("query default_row_limit must be positive, got %d", c.Query.DefaultRowLimit)
	}
	if c.Query.MinResolveScore < 1 {
		return fmt.Errorf("query min_resolve_score must be at least 1, got %d", c.Query.MinResolveScore)
	}
	if c.Dremio.CertPath != "" {
		if _, err := os.Stat(c.Dremio.CertPath); err != nil {
			return fmt.Errorf("dremio cert file does not exist: %w", err)
		}
	}
	return nil
}

// BaseURL returns the Dremio REST base URL.
func (c *DremioConfig) BaseURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Host, c.Port)
}
