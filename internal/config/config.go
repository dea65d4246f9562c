// Package config reads the server's settings from the environment, after
// loading any .env files that are present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultListenAddr     = ":42069"
	DefaultRequestTimeout = 60 * time.Second
	DefaultLogLevel       = "info"
)

// ErrMissingAPIKey is returned when OPENAI_API_KEY is unset or empty.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

type Config struct {
	APIKey string
	// Endpoint is empty unless OPENAI_ENDPOINT overrides the default chat URL.
	Endpoint       string
	ListenAddr     string
	RequestTimeout time.Duration
	LogLevel       string
}

// Load reads the given .env files (".env" when none are named) into the
// process environment without overriding variables that are already set,
// then builds a Config from it. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config using getenv for lookups.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		APIKey:         getenv("OPENAI_API_KEY"),
		Endpoint:       getenv("OPENAI_ENDPOINT"),
		ListenAddr:     getenv("LISTEN_ADDR"),
		RequestTimeout: DefaultRequestTimeout,
		LogLevel:       getenv("LOG_LEVEL"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if raw := getenv("REQUEST_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", raw, err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("invalid REQUEST_TIMEOUT %q: must not be negative", raw)
		}
		cfg.RequestTimeout = d
	}

	if cfg.APIKey == "" {
		return cfg, ErrMissingAPIKey
	}

	return cfg, nil
}
