// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration. It is loaded once at startup
// and treated as immutable afterwards.
type Config struct {
	Port            string
	AllowedOrigins  []string
	DefaultLanguage string

	// OpenAIAPIKey empty means the model enrichment path is disabled and
	// every request is answered deterministically.
	OpenAIAPIKey  string
	OpenAIModel   string
	EnrichTimeout time.Duration

	Transcript TranscriptConfig
}

// TranscriptConfig controls the opt-in SQLite transcript log.
type TranscriptConfig struct {
	Enabled   bool
	DBPath    string
	Retention time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		EnrichTimeout:   getEnvDuration("ENRICH_TIMEOUT", 8*time.Second),
		Transcript: TranscriptConfig{
			Enabled:   getEnvBool("TRANSCRIPT_LOG_ENABLED", false),
			DBPath:    getEnv("TRANSCRIPT_DB_PATH", "./data/transcripts.db"),
			Retention: getEnvDuration("TRANSCRIPT_RETENTION", 30*24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS cannot be empty")
	}
	if c.DefaultLanguage != "en" && c.DefaultLanguage != "es" {
		return fmt.Errorf("DEFAULT_LANGUAGE must be \"en\" or \"es\", got %q", c.DefaultLanguage)
	}
	if c.EnrichTimeout <= 0 {
		return fmt.Errorf("ENRICH_TIMEOUT must be positive")
	}
	if c.Transcript.Enabled {
		if c.Transcript.DBPath == "" {
			return fmt.Errorf("TRANSCRIPT_DB_PATH cannot be empty when transcripts are enabled")
		}
		if c.Transcript.Retention <= 0 {
			return fmt.Errorf("TRANSCRIPT_RETENTION must be positive")
		}
	}
	return nil
}

// ModelEnabled reports whether the OpenAI enrichment path is configured.
func (c *Config) ModelEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
