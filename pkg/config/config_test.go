package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "0.0.0.0", cfg.BindAddr)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "local", cfg.Env)

	assert.Equal(t, "localhost", cfg.Dremio.Host)
	assert.Equal(t, 9047, cfg.Dremio.Port)
	assert.True(t, cfg.Dremio.UseSSL)
	assert.True(t, cfg.Dremio.VerifySSL)
	assert.Equal(t, 300, cfg.Dremio.JobTimeoutSeconds)
	assert.Equal(t, 500, cfg.Dremio.ResultPageSize)

	assert.Equal(t, 100, cfg.Query.DefaultRowLimit)
	assert.Equal(t, 1, cfg.Query.MinResolveScore)
	assert.True(t, cfg.Query.PreferShortestPath)

	assert.Equal(t, 30, cfg.AI.TimeoutSeconds)
	assert.False(t, cfg.AI.Bedrock.IsAvailable())
	assert.False(t, cfg.AI.OpenAI.IsAvailable())
	assert.False(t, cfg.AI.Anthropic.IsAvailable())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DREMIO_HOST", "dremio.example")
	t.Setenv("DREMIO_USE_SSL", "false")
	t.Setenv("PORT", "8080")
	t.Setenv("QUERY_DEFAULT_ROW_LIMIT", "50")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "dremio.example", cfg.Dremio.Host)
	assert.False(t, cfg.Dremio.UseSSL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 50, cfg.Query.DefaultRowLimit)
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := `
port: "9999"
dremio:
  host: yaml-host
  port: 9047
  use_ssl: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Chdir(dir)
	t.Setenv("DREMIO_HOST", "env-host")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	// Environment wins over YAML.
	assert.Equal(t, "env-host", cfg.Dremio.Host)
}

func TestLoad_ValidationFailures(t *testing.T) {
	t.Run("zero row limit", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("QUERY_DEFAULT_ROW_LIMIT", "0")
		_, err := Load("dev")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "default_row_limit")
	})

	t.Run("zero resolve score", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("QUERY_MIN_RESOLVE_SCORE", "0")
		_, err := Load("dev")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "min_resolve_score")
	})

	t.Run("missing cert file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("DREMIO_CERT_PATH", "/nonexistent/ca.pem")
		_, err := Load("dev")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cert")
	})
}

func TestProviderAvailability(t *testing.T) {
	bedrock := BedrockConfig{ModelID: "anthropic.claude-3", Region: "us-east-1"}
	assert.False(t, bedrock.IsAvailable())
	bedrock.AccessKeyID = "AKIA123"
	bedrock.SecretAccessKey = "secret"
	assert.True(t, bedrock.IsAvailable())

	assert.False(t, (&OpenAIConfig{}).IsAvailable())
	assert.True(t, (&OpenAIConfig{APIKey: "sk-1"}).IsAvailable())

	assert.False(t, (&AnthropicConfig{}).IsAvailable())
	assert.True(t, (&AnthropicConfig{APIKey: "sk-ant-1"}).IsAvailable())
}

func TestDremioBaseURL(t *testing.T) {
	c := DremioConfig{Host: "dremio.internal", Port: 9047, UseSSL: true}
	assert.Equal(t, "https://dremio.internal:9047", c.BaseURL())
	c.UseSSL = false
	assert.Equal(t, "http://dremio.internal:9047", c.BaseURL())
}
