package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
	Storage  StorageConfig  `toml:"storage"`
	Crawler  CrawlerConfig  `toml:"crawler"`
	News     NewsConfig     `toml:"news"`
	Filings  FilingsConfig  `toml:"filings"`
	LLM      LLMConfig      `toml:"llm"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port" validate:"gte=0,lte=65535"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path string `toml:"path" validate:"required"` // Database directory path
}

// CrawlerConfig contains the shared page-fetch configuration. The user agent
// is injected into every outbound client at construction rather than being a
// process-wide global; any client may override it.
type CrawlerConfig struct {
	UserAgents     []string `toml:"user_agents"`                         // Pool of user agent strings, one chosen per client
	MaxConcurrency int      `toml:"max_concurrency" validate:"gte=1"`    // Concurrent article body fetches
	SearchTimeout  string   `toml:"search_timeout"`                      // Timeout per search-results fetch, e.g. "15s"
	ArticleTimeout string   `toml:"article_timeout"`                     // Timeout per article body fetch, e.g. "20s"
	RateLimit      float64  `toml:"rate_limit" validate:"gt=0"`          // Requests per second against the news source
	RateBurst      int      `toml:"rate_burst" validate:"gte=1"`         // Burst size for the rate limiter
}

// NewsConfig contains the news search source configuration
type NewsConfig struct {
	SearchURL string `toml:"search_url" validate:"required"` // Format string taking keyword and page number
}

// FilingsConfig contains the regulatory filing source configuration
type FilingsConfig struct {
	ReportURL     string `toml:"report_url" validate:"required"` // Format string taking stock id, year, season
	RenderTimeout string `toml:"render_timeout"`                 // Deadline for the rendered page to show a table
	RenderSettle  string `toml:"render_settle"`                  // Extra wait after the first table appears
	MaxTables     int    `toml:"max_tables" validate:"gte=1"`    // Tables parsed per filing page
}

// LLMConfig contains language model provider configuration
type LLMConfig struct {
	Provider    string  `toml:"provider" validate:"oneof=claude gemini"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	Timeout     string  `toml:"timeout"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"` // Default when a call does not specify one
}

// PipelineConfig contains evidence budget and deadline configuration
type PipelineConfig struct {
	MaxArticles      int    `toml:"max_articles" validate:"gte=1"`       // Articles included in the corpus
	ArticleCharLimit int    `toml:"article_char_limit" validate:"gte=1"` // Hard cut per article body
	FilingsCharLimit int    `toml:"filings_char_limit" validate:"gte=1"` // Hard cut for serialized filing data
	Deadline         string `toml:"deadline"`                            // Wall-clock bound per pipeline invocation
}

// DefaultConfig returns the configuration defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 6277,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/moneta",
			},
		},
		Crawler: CrawlerConfig{
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.1 Safari/605.1.15",
			},
			MaxConcurrency: 4,
			SearchTimeout:  "15s",
			ArticleTimeout: "20s",
			RateLimit:      2,
			RateBurst:      4,
		},
		News: NewsConfig{
			SearchURL: "https://www.ettoday.net/news_search/doSearch.php?keywords=%s&page=%d",
		},
		Filings: FilingsConfig{
			ReportURL:     "https://mopsov.twse.com.tw/server-java/t164sb01?step=3&CO_ID=%s&SYEAR=%d&SSEASON=%d&REPORT_ID=C",
			RenderTimeout: "30s",
			RenderSettle:  "2s",
			MaxTables:     5,
		},
		LLM: LLMConfig{
			Provider:    "claude",
			Timeout:     "120s",
			MaxTokens:   4096,
			Temperature: 0.7,
		},
		Pipeline: PipelineConfig{
			MaxArticles:      5,
			ArticleCharLimit: 3000,
			FilingsCharLimit: 2000,
			Deadline:         "3m",
		},
	}
}

// LoadFromFile loads configuration with precedence: defaults -> file -> env
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("MONETA_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("MONETA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("MONETA_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("MONETA_BADGER_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("MONETA_LLM_PROVIDER"); v != "" {
		config.LLM.Provider = v
	}
	if v := os.Getenv("MONETA_LLM_MODEL"); v != "" {
		config.LLM.Model = v
	}
	if v := os.Getenv("MONETA_LLM_API_KEY"); v != "" {
		config.LLM.APIKey = v
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ParseDurationOr parses a duration string, falling back when empty or invalid
func ParseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
