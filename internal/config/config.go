// Package config loads application settings from the environment via Viper.
// Everything has a default except the JWT secret; the OpenAI key is optional
// but leaves the AI endpoints unregistered when absent.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting, resolved once at startup and passed
// into the server explicitly.
type Config struct {
	Port     int
	DBPath   string
	LogLevel string

	JWTSecret string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string

	OpenAIAPIKey     string
	OpenAIModel      string
	AITimeout        time.Duration
	AIMaxAttempts    int
	AIRetryBaseDelay time.Duration
}

// Load reads configuration from environment variables (PORT, DB_PATH,
// JWT_SECRET, OPENAI_API_KEY, ...) with defaults for everything optional.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "data/snippets.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("ai_timeout", "30s")
	v.SetDefault("ai_max_attempts", 3)
	v.SetDefault("ai_retry_base_delay", "1s")

	v.AutomaticEnv()

	cfg := &Config{
		Port:     v.GetInt("port"),
		DBPath:   v.GetString("db_path"),
		LogLevel: v.GetString("log_level"),

		JWTSecret: v.GetString("jwt_secret"),

		GitHubClientID:     v.GetString("github_client_id"),
		GitHubClientSecret: v.GetString("github_client_secret"),
		GitHubCallbackURL:  v.GetString("github_callback_url"),

		OpenAIAPIKey:     v.GetString("openai_api_key"),
		OpenAIModel:      v.GetString("openai_model"),
		AITimeout:        v.GetDuration("ai_timeout"),
		AIMaxAttempts:    v.GetInt("ai_max_attempts"),
		AIRetryBaseDelay: v.GetDuration("ai_retry_base_delay"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}

	return cfg, nil
}
