// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config defines the service configuration and loads it from
// defaults, a YAML file, QANDA_* environment variables and command flags.
package config

import (
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/qanda/internal/auth"
	"github.com/holomush/qanda/internal/logging"
)

// Config is the root configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
	Token    TokenConfig    `koanf:"token"`
	CORS     CORSConfig     `koanf:"cors"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdowntimeout"`
}

// MetricsConfig configures the observability listener. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// DatabaseConfig configures PostgreSQL. An empty URL selects the in-memory
// repository.
type DatabaseConfig struct {
	URL         string `koanf:"url"`
	MaxConns    int32  `koanf:"maxconns"`
	AutoMigrate bool   `koanf:"automigrate"`
}

// TokenConfig configures session tokens.
type TokenConfig struct {
	Key string        `koanf:"key"`
	TTL time.Duration `koanf:"ttl"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

// defaults returns the flattened default values.
func defaults() map[string]any {
	return map[string]any{
		"http.addr":            ":8080",
		"http.shutdowntimeout": "10s",
		"metrics.addr":         "127.0.0.1:9100",
		"log.format":           "json",
		"log.level":            "info",
		"database.url":         "",
		"database.maxconns":    5,
		"database.automigrate": false,
		"token.key":            "",
		"token.ttl":            auth.DefaultTokenTTL.String(),
		"cors.origins":         []string{},
	}
}

// Validate checks everything the serve command needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return invalid("http.addr", "http.addr is required")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return invalid("http.shutdowntimeout", "http.shutdowntimeout must be positive")
	}
	if f := strings.ToLower(c.Log.Format); f != "json" && f != "text" {
		return invalid("log.format", "log.format must be json or text, got %q", c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", "log.level %q is not a valid level", c.Log.Level)
	}
	if c.Database.URL != "" {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}
	if len(c.Token.Key) < auth.MinTokenKeyLen {
		return invalid("token.key", "token.key must be at least %d bytes", auth.MinTokenKeyLen)
	}
	if c.Token.TTL <= 0 {
		return invalid("token.ttl", "token.ttl must be positive")
	}
	for _, origin := range c.CORS.Origins {
		if strings.TrimSpace(origin) == "" {
			return invalid("cors.origins", "cors.origins cannot contain empty entries")
		}
	}
	return nil
}

// Validate checks the settings needed to reach the database.
func (d DatabaseConfig) Validate() error {
	if strings.TrimSpace(d.URL) == "" {
		return invalid("database.url", "database.url is required")
	}
	if d.MaxConns < 1 {
		return invalid("database.maxconns", "database.maxconns must be at least 1, got %d", d.MaxConns)
	}
	return nil
}

func invalid(key, format string, args ...any) error {
	return oops.Code("CONFIG_INVALID").With("key", key).Errorf(format, args...)
}
