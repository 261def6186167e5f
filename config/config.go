package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	SearchAPI SearchAPIConfig
	Scraper   ScraperConfig
	Search    SearchConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GeminiConfig holds planner (Gemini API) configuration
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// SearchAPIConfig holds general web-search provider configuration
type SearchAPIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Location   string `mapstructure:"location"`
	GL         string `mapstructure:"gl"`
	HL         string `mapstructure:"hl"`
	MaxResults int    `mapstructure:"max_results"`
}

// ScraperConfig holds marketplace scraper configuration
type ScraperConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	FallbackTerm  string `mapstructure:"fallback_term"`
	FallbackLimit int    `mapstructure:"fallback_limit"`
}

// SearchConfig holds aggregation pipeline configuration
type SearchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Scraper   float64 `mapstructure:"scraper"`
	SearchAPI float64 `mapstructure:"searchapi"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bilmo/")

	// Environment variable settings
	v.SetEnvPrefix("BILMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Gemini defaults. The key is registered empty so viper binds the
	// env var; validation rejects the empty value, it is never a
	// usable default.
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	// Search API defaults (same required-key treatment)
	v.SetDefault("searchapi.api_key", "")
	v.SetDefault("searchapi.base_url", "https://www.searchapi.io/api/v1/search")
	v.SetDefault("searchapi.location", "India")
	v.SetDefault("searchapi.gl", "in")
	v.SetDefault("searchapi.hl", "en")
	v.SetDefault("searchapi.max_results", 15)

	// Scraper defaults
	v.SetDefault("scraper.base_url", "https://scraper-mauve.vercel.app")
	v.SetDefault("scraper.fallback_term", "laptop")
	v.SetDefault("scraper.fallback_limit", 10)

	// Aggregation defaults
	v.SetDefault("search.timeout", "10s")
	v.SetDefault("search.retries", 3)

	// Cache defaults
	v.SetDefault("cache.ttl", "15m")

	// Rate limit defaults (requests per second per outbound client)
	v.SetDefault("ratelimit.scraper", 5.0)
	v.SetDefault("ratelimit.searchapi", 2.0)
}

// validate validates the configuration. Credentials are required:
// missing keys fail startup instead of being silently substituted.
func validate(config *Config) error {
	if config.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set BILMO_GEMINI_API_KEY)")
	}

	if config.SearchAPI.APIKey == "" {
		return fmt.Errorf("Search API key is required (set BILMO_SEARCHAPI_API_KEY)")
	}

	if config.Search.Timeout <= 0 {
		return fmt.Errorf("search timeout must be positive, got: %s", config.Search.Timeout)
	}

	if config.Scraper.FallbackLimit < 0 {
		return fmt.Errorf("scraper fallback limit must be non-negative, got: %d", config.Scraper.FallbackLimit)
	}

	return nil
}
