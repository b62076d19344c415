package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var ErrUnknownProvider = errors.New("unknown model provider")

// Config holds all assistant configuration
type Config struct {
	// Model provider settings
	Provider    string  `mapstructure:"provider" yaml:"provider"`
	Model       string  `mapstructure:"model" yaml:"model"`
	Temperature float32 `mapstructure:"temperature" yaml:"temperature"`

	// Credentials
	GoogleAPIKey    string `mapstructure:"google_api_key" yaml:"google_api_key"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key" yaml:"openai_api_key"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key" yaml:"anthropic_api_key"`
	TavilyAPIKey    string `mapstructure:"tavily_api_key" yaml:"tavily_api_key"`

	TavilyBaseURL string `mapstructure:"tavily_base_url" yaml:"tavily_base_url"`
	HTTPAddress   string `mapstructure:"http_address" yaml:"http_address"`
	APIToken      string `mapstructure:"api_token" yaml:"api_token"`
	Debug         bool   `mapstructure:"debug" yaml:"debug"`
}

// LoadConfig loads configuration from files and environment variables.
// It does not validate; callers decide when a missing key is fatal.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envMappings := map[string]string{
		"provider":          "ASSISTANT_PROVIDER",
		"model":             "ASSISTANT_MODEL",
		"temperature":       "ASSISTANT_TEMPERATURE",
		"google_api_key":    "GOOGLE_API_KEY",
		"openai_api_key":    "OPENAI_API_KEY",
		"anthropic_api_key": "ANTHROPIC_API_KEY",
		"tavily_api_key":    "TAVILY_API_KEY",
		"tavily_base_url":   "TAVILY_BASE_URL",
		"http_address":      "HTTP_ADDRESS",
		"api_token":         "ASSISTANT_API_TOKEN",
		"debug":             "DEBUG",
	}

	for configKey, envVar := range envMappings {
		if err := v.BindEnv(configKey, envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, configKey)
		}
	}

	v.SetConfigName("assistant_config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.order-assistant")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Provider = NormalizeProvider(config.Provider)

	log.Debug().
		Str("provider", config.Provider).
		Str("model", config.Model).
		Bool("search_enabled", config.SearchEnabled()).
		Msg("Config loaded")

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderGemini)
	v.SetDefault("model", "")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("tavily_base_url", "https://api.tavily.com")
	v.SetDefault("http_address", ":8080")
	v.SetDefault("debug", false)
}

// NormalizeProvider trims and lower-cases a provider name so flags, env and
// file values compare equal.
func NormalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

// ModelAPIKeyEnv returns the environment variable holding the key for the selected provider.
func (c *Config) ModelAPIKeyEnv() string {
	switch c.Provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GOOGLE_API_KEY"
	}
}

// ModelAPIKey returns the key for the selected provider.
func (c *Config) ModelAPIKey() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.GoogleAPIKey
	}
}

// SetModelAPIKey stores a key for the selected provider.
func (c *Config) SetModelAPIKey(key string) {
	switch c.Provider {
	case ProviderOpenAI:
		c.OpenAIAPIKey = key
	case ProviderAnthropic:
		c.AnthropicAPIKey = key
	default:
		c.GoogleAPIKey = key
	}
}

// Redacted returns a copy with every secret masked, safe to print or log.
func (c Config) Redacted() Config {
	c.GoogleAPIKey = mask(c.GoogleAPIKey)
	c.OpenAIAPIKey = mask(c.OpenAIAPIKey)
	c.AnthropicAPIKey = mask(c.AnthropicAPIKey)
	c.TavilyAPIKey = mask(c.TavilyAPIKey)
	c.APIToken = mask(c.APIToken)
	return c
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-4)
}

// SearchEnabled reports whether a Tavily key is configured.
func (c *Config) SearchEnabled() bool {
	return c.TavilyAPIKey != ""
}

// Validate checks that the assistant can start. Only the model key is
// required; a missing search key disables web search alone.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("%w: %q (expected %s, %s or %s)", ErrUnknownProvider, c.Provider, ProviderGemini, ProviderOpenAI, ProviderAnthropic)
	}

	var missingVars []string

	if c.ModelAPIKey() == "" {
		missingVars = append(missingVars, c.ModelAPIKeyEnv())
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return nil
}
