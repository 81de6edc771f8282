// Package config provides configuration for pixlens: defaults, an optional
// YAML file, environment variables (PIXLENS_ prefix), and flag binds, in
// that order of precedence (lowest first).
package config

import (
	"errors"
	"strings"
	"time"
)

// Config is the complete application configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Store     StoreConfig     `mapstructure:"store"`
	Draw      DrawConfig      `mapstructure:"draw"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// APIConfig locates and authenticates against the pixel API.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Token     string        `mapstructure:"token"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig controls limiter snapshot persistence to a JSON file.
// Empty SaveFile disables it.
type RateLimitConfig struct {
	SaveFile string `mapstructure:"save_file"`
}

// StoreConfig selects the optional libsql snapshot store. When Path is set
// it takes precedence over the JSON save file.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// DrawConfig holds draw planner defaults.
type DrawConfig struct {
	Order        string        `mapstructure:"order"`
	LoopInterval time.Duration `mapstructure:"loop_interval"`
}

// LoggingConfig controls the CLI logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// RequireToken checks that an API token is configured, for operations that
// need authentication.
func (c *Config) RequireToken() error {
	if strings.TrimSpace(c.API.Token) == "" {
		return errors.New("api token is required: set api.token or PIXLENS_API_TOKEN")
	}
	return nil
}
