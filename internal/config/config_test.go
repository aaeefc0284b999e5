package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty temp dir so no stray structsort.yaml is found.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "ascending", cfg.Defaults.SortOrder)
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.True(t, cfg.Engine.Fallback)
	assert.Equal(t, 30*time.Second, cfg.Engine.FallbackTimeout)
	assert.Equal(t, float32(0.1), cfg.LLM.Temperature)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.LLMConfigured())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FromWorkingDirectory(t *testing.T) {
	dir := chdir(t)
	content := `
defaults:
  structure_type: csv
  sort_order: numerical
engine:
  workers: 8
  max_items: 50
  fallback_timeout: 5s
llm:
  temperature: 0.5
store:
  path: runs.db
logging:
  format: json
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "structsort.yaml"), []byte(content), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Defaults.StructureType)
	assert.Equal(t, "numerical", cfg.Defaults.SortOrder)
	assert.Equal(t, 8, cfg.Engine.Workers)
	assert.Equal(t, 50, cfg.Engine.MaxItems)
	assert.Equal(t, 5*time.Second, cfg.Engine.FallbackTimeout)
	assert.True(t, cfg.Engine.Sorting, "unset keys keep their defaults")
	assert.Equal(t, float32(0.5), cfg.LLM.Temperature)
	assert.Equal(t, "runs.db", cfg.Store.Path)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	dir := chdir(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  workers: 2\n"), 0o644))

	t.Setenv("STRUCTSORT_ENGINE_WORKERS", "16")
	t.Setenv("STRUCTSORT_ENGINE_FALLBACK", "false")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("STRUCTSORT_LLM_API_KEY", "secret")
	t.Setenv("STRUCTSORT_LLM_DEPLOYMENT", "gpt-4o")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Engine.Workers)
	assert.False(t, cfg.Engine.Fallback)
	assert.True(t, cfg.LLMConfigured())
	assert.Equal(t, "https://example.openai.azure.com", cfg.LLM.Endpoint)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mutate func(*Config)
		field string
	}{
		{"structure type", func(c *Config) { c.Defaults.StructureType = "toml" }, "defaults.structure_type"},
		{"output type", func(c *Config) { c.Defaults.OutputType = "pdf" }, "defaults.output_type"},
		{"sort order", func(c *Config) { c.Defaults.SortOrder = "random" }, "defaults.sort_order"},
		{"workers", func(c *Config) { c.Engine.Workers = 0 }, "engine.workers"},
		{"max items", func(c *Config) { c.Engine.MaxItems = -1 }, "engine.max_items"},
		{"timeout", func(c *Config) { c.Engine.FallbackTimeout = 0 }, "engine.fallback_timeout"},
		{"history", func(c *Config) { c.Engine.HistoryLimit = -5 }, "engine.history_limit"},
		{"partial llm", func(c *Config) { c.LLM.Endpoint = "https://x" }, "llm"},
		{"temperature", func(c *Config) { c.LLM.Temperature = 3 }, "llm.temperature"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	for level, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	} {
		cfg.Logging.Level = level
		assert.Equal(t, want, cfg.SlogLevel(), level)
	}
}
