// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/qanda/pkg/errutil"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Addr: ":8080", ShutdownTimeout: time.Second},
		Log:      LogConfig{Format: "json", Level: "info"},
		Database: DatabaseConfig{URL: "postgres://qanda@db/qanda", MaxConns: 5},
		Token:    TokenConfig{Key: testKey, TTL: time.Hour},
		CORS:     CORSConfig{Origins: []string{"https://app.example"}},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "memory store", mutate: func(c *Config) { c.Database = DatabaseConfig{} }},
		{name: "empty http addr", mutate: func(c *Config) { c.HTTP.Addr = "" }, wantKey: "http.addr"},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.HTTP.ShutdownTimeout = 0 }, wantKey: "http.shutdowntimeout"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantKey: "log.format"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantKey: "log.level"},
		{name: "zero max conns", mutate: func(c *Config) { c.Database.MaxConns = 0 }, wantKey: "database.maxconns"},
		{name: "missing token key", mutate: func(c *Config) { c.Token.Key = "" }, wantKey: "token.key"},
		{name: "short token key", mutate: func(c *Config) { c.Token.Key = testKey[:31] }, wantKey: "token.key"},
		{name: "zero token ttl", mutate: func(c *Config) { c.Token.TTL = 0 }, wantKey: "token.ttl"},
		{name: "empty origin", mutate: func(c *Config) { c.CORS.Origins = []string{" "} }, wantKey: "cors.origins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
			errutil.AssertErrorContext(t, err, "key", tt.wantKey)
		})
	}
}

func TestDatabaseConfig_Validate(t *testing.T) {
	err := DatabaseConfig{MaxConns: 5}.Validate()
	errutil.AssertErrorContext(t, err, "key", "database.url")

	assert.NoError(t, DatabaseConfig{URL: "postgres://db/qanda", MaxConns: 1}.Validate())
}
