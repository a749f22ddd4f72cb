package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// DatabaseURL is optional; without it the translation cache is
	// disabled and every request goes to the provider.
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMinConns  int32  `envconfig:"FK_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"FK_DB_MAX_CONNS" default:"8"`

	ChatAPIKey   string `envconfig:"CHAT_API_KEY" default:""`
	ChatModel    string `envconfig:"CHAT_MODEL" default:""`
	ChatEndpoint string `envconfig:"CHAT_ENDPOINT" default:""`

	// ContextRetention keeps model replies in the chat conversation across
	// segments; ContextLength bounds the conversation window.
	ContextRetention bool `envconfig:"CONTEXT_RETENTION" default:"false"`
	ContextLength    int  `envconfig:"CONTEXT_LENGTH" default:"20"`

	ChatGlossary  bool   `envconfig:"CHAT_GLOSSARY" default:"false"`
	OverridesFile string `envconfig:"TRANSLATOR_OVERRIDES_FILE" default:""`

	// AccessKeyHash is a bcrypt hash; when set, API requests must carry
	// the matching bearer key.
	AccessKeyHash string `envconfig:"ACCESS_KEY_HASH" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBMinConns < 0 {
		return fmt.Errorf("FK_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("FK_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("FK_DB_MIN_CONNS (%d) cannot exceed FK_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.ContextLength < 1 {
		return fmt.Errorf("CONTEXT_LENGTH must be >= 1")
	}
	return nil
}

// CacheEnabled reports whether a translation cache database is configured.
func (c *Config) CacheEnabled() bool {
	if c == nil {
		return false
	}
	return strings.TrimSpace(c.DatabaseURL) != ""
}
