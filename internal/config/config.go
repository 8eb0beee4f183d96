// Package config loads client configuration from the environment, with an
// optional .env file for development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything needed to build a session.
type Config struct {
	// BaseURL is the API root of the ChallengeMe backend.
	BaseURL string
	// Token is the bearer credential for the current user.
	Token string
	// PollInterval is the notification polling cadence.
	PollInterval time.Duration
	// RequestTimeout bounds each API request.
	RequestTimeout time.Duration
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from CHALLENGEME_* environment variables,
// loading a .env file first when one exists.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:        getEnv("CHALLENGEME_API_URL", "http://localhost:8080/api"),
		Token:          os.Getenv("CHALLENGEME_TOKEN"),
		PollInterval:   30 * time.Second,
		RequestTimeout: 10 * time.Second,
		LogLevel:       getEnv("CHALLENGEME_LOG_LEVEL", "info"),
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("CHALLENGEME_TOKEN is required")
	}

	var err error
	if cfg.PollInterval, err = getDuration("CHALLENGEME_POLL_INTERVAL", cfg.PollInterval); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("CHALLENGEME_REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
