// Package config provides configuration loading and management for bookforge.
//
// Configuration is loaded using Viper, supporting YAML config files and
// environment variable overrides. The package provides sensible defaults that
// work out of the box, with the ability to customize the model provider,
// sampling parameters, revision policy, and output settings.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [LLMConfig] contains provider and sampling settings
//   - [WorkflowConfig] contains revision caps and pacing
//
// Configuration priority (highest to lowest):
//  1. Environment variables (BOOKFORGE_ prefix, dots become underscores,
//     e.g. BOOKFORGE_LLM_MODEL)
//  2. Config file specified by BOOKFORGE_CONFIG_PATH
//  3. ./bookforge.yaml
//  4. User config directory (e.g. ~/.config/bookforge/bookforge.yaml)
//  5. [DefaultConfig] defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"bookforge/internal/book"
)

// Config represents the root configuration structure.
//
// This is the main configuration container loaded by [Loader] and used
// throughout the application. Use [DefaultConfig] to get sensible defaults.
type Config struct {
	// LLM contains model provider and sampling settings.
	LLM LLMConfig `mapstructure:"llm"`

	// Workflow contains revision caps and review pacing.
	Workflow WorkflowConfig `mapstructure:"workflow"`

	// Output contains export destination settings.
	Output OutputConfig `mapstructure:"output"`

	// Server contains the dashboard HTTP server settings.
	Server ServerConfig `mapstructure:"server"`

	// Log contains logger settings.
	Log LogConfig `mapstructure:"log"`

	// Defaults contains the request fields applied when a caller leaves
	// them blank.
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// LLMConfig contains model provider and sampling configuration.
type LLMConfig struct {
	// Provider selects the model backend: "gemini", "openai" or "claude".
	// Default: "gemini".
	Provider string `mapstructure:"provider"`

	// Model is the model identifier passed to the provider.
	// Default: "gemini-2.5-flash".
	Model string `mapstructure:"model"`

	// Temperature controls sampling randomness. Range [0, 2].
	// Default: 0.7.
	Temperature float64 `mapstructure:"temperature"`

	// TopP is the nucleus sampling cutoff. Range (0, 1].
	// Default: 0.95.
	TopP float64 `mapstructure:"top_p"`

	// TopK limits sampling to the K most likely tokens. Zero disables
	// the limit. Default: 64.
	TopK int `mapstructure:"top_k"`

	// MaxTokens caps the length of a single model response.
	// Default: 8192.
	MaxTokens int `mapstructure:"max_tokens"`

	// Streaming requests a streamed response which is drained into a
	// single string before use. Output is identical either way.
	// Default: false.
	Streaming bool `mapstructure:"streaming"`

	// BaseURL overrides the provider endpoint. Only honored by the
	// openai provider, for OpenAI-compatible gateways. Default: "".
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds a single model call. Default: 2m.
	Timeout time.Duration `mapstructure:"timeout"`
}

// WorkflowConfig contains revision caps and review pacing.
type WorkflowConfig struct {
	// MaxOutlineRevisions caps how many times the outline may loop
	// through revision before the exhaustion policy applies.
	// Default: 3.
	MaxOutlineRevisions int `mapstructure:"max_outline_revisions"`

	// MaxChapterRevisions caps revision loops per chapter.
	// Default: 3.
	MaxChapterRevisions int `mapstructure:"max_chapter_revisions"`

	// OnRevisionExhausted selects what happens when a cap is hit:
	// "accept" force-accepts the latest draft, "fail" aborts the run.
	// Default: "accept".
	OnRevisionExhausted string `mapstructure:"on_revision_exhausted"`

	// ReviewBackoff is the pause before each chapter review call,
	// spacing out requests against provider rate limits. Default: 5s.
	ReviewBackoff time.Duration `mapstructure:"review_backoff"`
}

// OutputConfig contains export destination configuration.
type OutputConfig struct {
	// Dir is the directory exported books are written to. Created on
	// demand. Default: "./output".
	Dir string `mapstructure:"dir"`

	// FallbackName is the base filename used when the book title
	// sanitizes to nothing usable. Default: "ebook".
	FallbackName string `mapstructure:"fallback_name"`
}

// ServerConfig contains dashboard HTTP server configuration.
type ServerConfig struct {
	// Addr is the listen address for the dashboard. Default: ":8080".
	Addr string `mapstructure:"addr"`
}

// LogConfig contains logger configuration.
type LogConfig struct {
	// Level is the minimum level emitted: trace, debug, info, warn or
	// error. Default: "info".
	Level string `mapstructure:"level"`

	// Pretty switches from JSON lines to a human-readable console
	// format. Default: true.
	Pretty bool `mapstructure:"pretty"`
}

// DefaultsConfig contains request fields applied when the caller leaves
// them blank.
type DefaultsConfig struct {
	// Audience is the default target audience. Default: "general readers".
	Audience string `mapstructure:"audience"`

	// Tone is the default writing tone.
	// Default: "professional but conversational".
	Tone string `mapstructure:"tone"`

	// Format is the default output format: "markdown", "doc" or "pdf".
	// Default: "doc".
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	v := viper.New()
	setDefaults(v)
	if err := v.Unmarshal(cfg); err != nil {
		// Defaults are static and decode into the struct they were
		// written for, so this cannot fail at runtime.
		panic(fmt.Sprintf("config: decoding defaults: %v", err))
	}
	return cfg
}

// setDefaults registers every configuration key with its default value so
// partial config files and env overrides merge cleanly.
func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 0.95)
	v.SetDefault("llm.top_k", 64)
	v.SetDefault("llm.max_tokens", 8192)
	v.SetDefault("llm.streaming", false)
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 2*time.Minute)

	v.SetDefault("workflow.max_outline_revisions", 3)
	v.SetDefault("workflow.max_chapter_revisions", 3)
	v.SetDefault("workflow.on_revision_exhausted", "accept")
	v.SetDefault("workflow.review_backoff", 5*time.Second)

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.fallback_name", "ebook")

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetDefault("defaults.audience", "general readers")
	v.SetDefault("defaults.tone", "professional but conversational")
	v.SetDefault("defaults.format", "doc")
}

// Loader loads configuration from files and the environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a configuration loader with defaults and environment
// binding registered.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("BOOKFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load reads configuration using the documented priority order. A missing
// config file is not an error; the defaults plus environment overrides are
// returned instead.
func (l *Loader) Load() (*Config, error) {
	if path := os.Getenv("BOOKFORGE_CONFIG_PATH"); path != "" {
		return l.LoadFromFile(path)
	}

	l.v.SetConfigName("bookforge")
	l.v.SetConfigType("yaml")
	l.v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(dir, "bookforge"))
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return l.decode()
}

// LoadFromFile reads configuration from an explicit file path. The file
// must exist.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its allowed range and returns the
// first violation, named by its config key.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai", "claude":
	default:
		return fmt.Errorf("llm.provider must be one of gemini, openai, claude; got %q", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2]; got %v", c.LLM.Temperature)
	}
	if c.LLM.TopP <= 0 || c.LLM.TopP > 1 {
		return fmt.Errorf("llm.top_p must be within (0, 1]; got %v", c.LLM.TopP)
	}
	if c.LLM.TopK < 0 {
		return fmt.Errorf("llm.top_k must not be negative; got %d", c.LLM.TopK)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive; got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive; got %v", c.LLM.Timeout)
	}

	if c.Workflow.MaxOutlineRevisions < 0 {
		return fmt.Errorf("workflow.max_outline_revisions must not be negative; got %d", c.Workflow.MaxOutlineRevisions)
	}
	if c.Workflow.MaxChapterRevisions < 0 {
		return fmt.Errorf("workflow.max_chapter_revisions must not be negative; got %d", c.Workflow.MaxChapterRevisions)
	}
	switch c.Workflow.OnRevisionExhausted {
	case "accept", "fail":
	default:
		return fmt.Errorf("workflow.on_revision_exhausted must be accept or fail; got %q", c.Workflow.OnRevisionExhausted)
	}
	if c.Workflow.ReviewBackoff < 0 {
		return fmt.Errorf("workflow.review_backoff must not be negative; got %v", c.Workflow.ReviewBackoff)
	}

	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("output.dir is required")
	}
	if strings.TrimSpace(c.Output.FallbackName) == "" {
		return fmt.Errorf("output.fallback_name is required")
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of trace, debug, info, warn, error; got %q", c.Log.Level)
	}

	if !book.OutputFormat(c.Defaults.Format).Valid() {
		return fmt.Errorf("defaults.format must be one of markdown, doc, pdf; got %q", c.Defaults.Format)
	}
	return nil
}
