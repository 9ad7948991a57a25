// Package config loads server settings from DEVCLUB_* environment variables.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix.
const Prefix = "devclub"

// Config holds the settings of the serve and mcp commands.
// Command-line flags take precedence over these values.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// StoriesDir selects the story source; empty means the built-in samples.
	StoriesDir string `envconfig:"STORIES_DIR"`

	// Redis session store. Empty RedisAddr keeps sessions in memory.
	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	RedisPassword     string        `envconfig:"REDIS_PASSWORD"`
	RedisPasswordFile string        `envconfig:"REDIS_PASSWORD_FILE"`
	RedisDB           int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	LockTTL           time.Duration `envconfig:"LOCK_TTL" default:"30s"`

	// SessionKey (base64, 32 bytes) seals stored snapshots with AES-256-GCM.
	// SessionFallbackKeys still decrypt sessions written before a rotation.
	SessionKey          string   `envconfig:"SESSION_KEY"`
	SessionFallbackKeys []string `envconfig:"SESSION_FALLBACK_KEYS"`

	Metrics bool `envconfig:"METRICS" default:"true"`
}

// Load reads the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.RedisPassword == "" && cfg.RedisPasswordFile != "" {
		data, err := os.ReadFile(cfg.RedisPasswordFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read redis password file: %w", err)
		}
		cfg.RedisPassword = strings.TrimSpace(string(data))
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.SessionTTL < 0 {
		return nil, fmt.Errorf("invalid session ttl %s", cfg.SessionTTL)
	}
	if _, _, err := cfg.EncryptionKeys(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EncryptionKeys decodes SessionKey and SessionFallbackKeys.
// A nil active key means snapshots are stored unencrypted.
func (c *Config) EncryptionKeys() (active []byte, fallback [][]byte, err error) {
	if c.SessionKey == "" {
		if len(c.SessionFallbackKeys) > 0 {
			return nil, nil, fmt.Errorf("session fallback keys need a session key")
		}
		return nil, nil, nil
	}
	if active, err = base64.StdEncoding.DecodeString(c.SessionKey); err != nil {
		return nil, nil, fmt.Errorf("invalid session key: %w", err)
	}
	for i, k := range c.SessionFallbackKeys {
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(k))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid session fallback key %d: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Usage prints the supported variables.
func Usage() error {
	var cfg Config
	return envconfig.Usage(Prefix, &cfg)
}
