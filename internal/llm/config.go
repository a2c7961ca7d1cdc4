package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures a provider.
type Config struct {
	Provider string

	Gemini     GeminiConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // for OpenAI-compatible endpoints
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses Gemini Flash, with three attempts and a 30s budget.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv reads ZIBAO_* variables over the defaults. When
// ZIBAO_LLM_PROVIDER is unset the provider is the first one with a key, in
// the order gemini, openai, anthropic, openrouter.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.Gemini.APIKey = os.Getenv("ZIBAO_GEMINI_API_KEY")
	cfg.Anthropic.APIKey = os.Getenv("ZIBAO_ANTHROPIC_API_KEY")
	cfg.OpenAI.APIKey = os.Getenv("ZIBAO_OPENAI_API_KEY")
	cfg.OpenAI.BaseURL = os.Getenv("ZIBAO_OPENAI_BASE_URL")
	cfg.OpenRouter.APIKey = os.Getenv("ZIBAO_OPENROUTER_API_KEY")

	if p := strings.ToLower(strings.TrimSpace(os.Getenv("ZIBAO_LLM_PROVIDER"))); p != "" {
		cfg.Provider = p
	} else if p, ok := cfg.keyed(); ok {
		cfg.Provider = p
	}

	if m := os.Getenv("ZIBAO_LLM_MODEL"); m != "" {
		cfg.SetModel(m)
	}
	if v := os.Getenv("ZIBAO_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = n
		}
	}
	if v := os.Getenv("ZIBAO_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

func (c Config) keyed() (string, bool) {
	switch {
	case c.Gemini.APIKey != "":
		return ProviderGemini, true
	case c.OpenAI.APIKey != "":
		return ProviderOpenAI, true
	case c.Anthropic.APIKey != "":
		return ProviderAnthropic, true
	case c.OpenRouter.APIKey != "":
		return ProviderOpenRouter, true
	}
	return "", false
}

// DiscoverConfig falls back to the vendors' own key variables
// (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY)
// and reports whether any was found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	p, ok := cfg.keyed()
	if !ok {
		return Config{}, false
	}
	cfg.Provider = p
	return cfg, true
}

// SetModel overrides the model of the selected provider.
func (c *Config) SetModel(model string) {
	switch c.Provider {
	case ProviderGemini:
		c.Gemini.Model = model
	case ProviderAnthropic:
		c.Anthropic.Model = model
	case ProviderOpenAI:
		c.OpenAI.Model = model
	case ProviderOpenRouter:
		c.OpenRouter.Model = model
	}
}

// Validate reports a missing key for the selected provider.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "ZIBAO_GEMINI_API_KEY"
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "ZIBAO_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "ZIBAO_OPENAI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "ZIBAO_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%w: %s is required for the %s provider", ErrNotConfigured, env, c.Provider)
	}
	return nil
}
