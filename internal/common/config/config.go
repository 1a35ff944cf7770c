package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	API     APIConfig
	Search  SearchConfig
	UI      UIConfig
	Stub    StubConfig
	Logging LoggingConfig
}

// APIConfig points at the routing service.
type APIConfig struct {
	BaseURL string
	// Timeout of zero leaves requests unbounded; the session context still cancels them.
	Timeout time.Duration
}

// SearchConfig tunes the search-as-you-type box.
type SearchConfig struct {
	Debounce       time.Duration
	MinQueryLength int
}

type UIConfig struct {
	Language string
}

// StubConfig is only read by cmd/rotastub.
type StubConfig struct {
	Addr    string
	Latency time.Duration
}

type LoggingConfig struct {
	Level    string
	FilePath string
	Console  bool
}

func Load() (*Config, error) {
	minLen, err := getIntEnv("ROTA_MIN_QUERY_LENGTH", 2)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("ROTA_API_BASE", "http://10.81.1.76:8000"),
			Timeout: getDurationEnv("ROTA_HTTP_TIMEOUT", 0),
		},
		Search: SearchConfig{
			Debounce:       getDurationEnv("ROTA_SEARCH_DEBOUNCE", time.Second),
			MinQueryLength: minLen,
		},
		UI: UIConfig{
			Language: getEnv("ROTA_LANG", "tr"),
		},
		Stub: StubConfig{
			Addr:    getEnv("ROTA_STUB_ADDR", ":8000"),
			Latency: getDurationEnv("ROTA_STUB_LATENCY", 0),
		},
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			FilePath: getEnv("LOG_FILE", "rotaplan.log"),
			Console:  getBoolEnv("LOG_CONSOLE", false),
		},
	}

	return cfg, nil
}

// Validate checks the values that would otherwise fail late, on first request.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing ROTA_API_BASE: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("ROTA_API_BASE must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("ROTA_API_BASE has no host: %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("ROTA_HTTP_TIMEOUT must not be negative")
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("ROTA_SEARCH_DEBOUNCE must not be negative")
	}
	if c.Search.MinQueryLength < 1 {
		return fmt.Errorf("ROTA_MIN_QUERY_LENGTH must be at least 1, got %d", c.Search.MinQueryLength)
	}
	switch c.UI.Language {
	case "tr", "en":
	default:
		return fmt.Errorf("ROTA_LANG must be tr or en, got %q", c.UI.Language)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
