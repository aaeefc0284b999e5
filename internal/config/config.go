// Package config loads structsort settings from structsort.yaml and
// STRUCTSORT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/roach88/structsort/internal/format"
	"github.com/roach88/structsort/internal/sorter"
)

// EnvPrefix prefixes every environment override, e.g. STRUCTSORT_ENGINE_WORKERS.
const EnvPrefix = "STRUCTSORT"

// Config is the complete structsort configuration.
type Config struct {
	Defaults DefaultsConfig `json:"defaults" mapstructure:"defaults"`
	Engine   EngineConfig   `json:"engine" mapstructure:"engine"`
	LLM      LLMConfig      `json:"llm" mapstructure:"llm"`
	Store    StoreConfig    `json:"store" mapstructure:"store"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// DefaultsConfig supplies request fields the command line leaves unset.
type DefaultsConfig struct {
	StructureType string `json:"structure_type" mapstructure:"structure_type"`
	SortOrder     string `json:"sort_order" mapstructure:"sort_order"`
	SortKey       string `json:"sort_key" mapstructure:"sort_key"`
	OutputType    string `json:"output_type" mapstructure:"output_type"`
}

// EngineConfig tunes the pipeline.
type EngineConfig struct {
	Workers         int           `json:"workers" mapstructure:"workers"`
	MaxItems        int           `json:"max_items" mapstructure:"max_items"`
	Fallback        bool          `json:"fallback" mapstructure:"fallback"`
	Sorting         bool          `json:"sorting" mapstructure:"sorting"`
	Formatting      bool          `json:"formatting" mapstructure:"formatting"`
	FallbackTimeout time.Duration `json:"fallback_timeout" mapstructure:"fallback_timeout"`
	HistoryLimit    int           `json:"history_limit" mapstructure:"history_limit"`
}

// LLMConfig points at the Azure OpenAI deployment used for fallback
// extraction. Fallback is off unless endpoint, api_key and deployment are
// all set.
type LLMConfig struct {
	Endpoint    string  `json:"endpoint" mapstructure:"endpoint"`
	APIKey      string  `json:"-" mapstructure:"api_key"`
	Deployment  string  `json:"deployment" mapstructure:"deployment"`
	Temperature float32 `json:"temperature" mapstructure:"temperature"`
}

// StoreConfig locates the run database. An empty path disables recording.
type StoreConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			SortOrder: string(sorter.OrderAscending),
		},
		Engine: EngineConfig{
			Workers:         4,
			Fallback:        true,
			Sorting:         true,
			Formatting:      true,
			FallbackTimeout: 30 * time.Second,
			HistoryLimit:    1000,
		},
		LLM: LLMConfig{
			Temperature: 0.1,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("defaults.structure_type", d.Defaults.StructureType)
	v.SetDefault("defaults.sort_order", d.Defaults.SortOrder)
	v.SetDefault("defaults.sort_key", d.Defaults.SortKey)
	v.SetDefault("defaults.output_type", d.Defaults.OutputType)
	v.SetDefault("engine.workers", d.Engine.Workers)
	v.SetDefault("engine.max_items", d.Engine.MaxItems)
	v.SetDefault("engine.fallback", d.Engine.Fallback)
	v.SetDefault("engine.sorting", d.Engine.Sorting)
	v.SetDefault("engine.formatting", d.Engine.Formatting)
	v.SetDefault("engine.fallback_timeout", d.Engine.FallbackTimeout)
	v.SetDefault("engine.history_limit", d.Engine.HistoryLimit)
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.deployment", "")
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("store.path", "")
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// Load reads configuration. With an explicit path that file must exist;
// otherwise structsort.yaml is looked up in the working directory and then
// in $HOME/.config/structsort, and a missing file means defaults.
// Environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.endpoint", EnvPrefix+"_LLM_ENDPOINT", "AZURE_OPENAI_ENDPOINT")
	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "AZURE_OPENAI_API_KEY")
	_ = v.BindEnv("llm.deployment", EnvPrefix+"_LLM_DEPLOYMENT", "AZURE_OPENAI_DEPLOYMENT")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("structsort")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "structsort"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

var (
	logFormats = []string{"text", "json"}
	logLevels  = []string{"debug", "info", "warn", "error"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if t := c.Defaults.StructureType; t != "" && !format.StructureType(t).Valid() {
		return &ConfigError{Field: "defaults.structure_type", Message: fmt.Sprintf("unknown structure type %q", t)}
	}
	if t := c.Defaults.OutputType; t != "" && !format.StructureType(t).Valid() {
		return &ConfigError{Field: "defaults.output_type", Message: fmt.Sprintf("unknown structure type %q", t)}
	}
	if o := c.Defaults.SortOrder; o != "" {
		if _, err := sorter.ParseOrder(o); err != nil {
			return &ConfigError{Field: "defaults.sort_order", Message: err.Error()}
		}
	}
	if c.Engine.Workers < 1 {
		return &ConfigError{Field: "engine.workers", Message: "must be at least 1"}
	}
	if c.Engine.MaxItems < 0 {
		return &ConfigError{Field: "engine.max_items", Message: "must not be negative"}
	}
	if c.Engine.FallbackTimeout <= 0 {
		return &ConfigError{Field: "engine.fallback_timeout", Message: "must be positive"}
	}
	if c.Engine.HistoryLimit < 0 {
		return &ConfigError{Field: "engine.history_limit", Message: "must not be negative"}
	}

	set := 0
	for _, s := range []string{c.LLM.Endpoint, c.LLM.APIKey, c.LLM.Deployment} {
		if s != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return &ConfigError{Field: "llm", Message: "endpoint, api_key and deployment must be set together"}
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return &ConfigError{Field: "llm.temperature", Message: "must be between 0 and 2"}
	}

	if !slices.Contains(logFormats, c.Logging.Format) {
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("must be one of %v", logFormats)}
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return &ConfigError{Field: "logging.level", Message: fmt.Sprintf("must be one of %v", logLevels)}
	}
	return nil
}

// LLMConfigured reports whether fallback extraction can be wired.
func (c *Config) LLMConfigured() bool {
	return c.LLM.Endpoint != "" && c.LLM.APIKey != "" && c.LLM.Deployment != ""
}

// SlogLevel maps logging.level onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
