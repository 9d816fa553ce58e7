// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// knownWeakTokens contains example tokens that must never guard the admin API.
var knownWeakTokens = []string{
	"change-me-to-a-long-admin-token",
	"REPLACE_WITH_YOUR_OWN_ADMIN_TOKEN",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"LDC_DB_PATH" envDefault:"./data/ldc.db"`
	ServerHost string `env:"LDC_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"LDC_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"LDC_ENV" envDefault:"development"`
	LogLevel   string `env:"LDC_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"LDC_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix  string `env:"LDC_CACHE_PREFIX" envDefault:"ldc:"`  // Redis key prefix
	CacheTTL     int    `env:"LDC_CACHE_TTL" envDefault:"300"`      // Settings cache TTL in seconds
	CacheMaxSize int    `env:"LDC_CACHE_MAX_SIZE" envDefault:"1000"` // Max memory cache entries

	// Settings reads
	SettingsTimeout time.Duration `env:"LDC_SETTINGS_TIMEOUT" envDefault:"2s"`
	SettingsRefresh string        `env:"LDC_SETTINGS_REFRESH" envDefault:"@every 5m"` // Cron spec; "off" disables

	// Admin API; not mounted when empty
	AdminToken string `env:"LDC_ADMIN_TOKEN"`

	// Seeding configuration
	DoSeed bool `env:"LDC_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// AdminEnabled returns true if the admin settings API should be mounted.
func (c Config) AdminEnabled() bool {
	return c.AdminToken != ""
}

// RefreshEnabled returns true if the settings cache should be re-warmed on a schedule.
func (c Config) RefreshEnabled() bool {
	return c.SettingsRefresh != "" && !strings.EqualFold(c.SettingsRefresh, "off")
}

// CacheTTLDuration returns the settings cache TTL.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinAdminTokenLength is the minimum accepted length for LDC_ADMIN_TOKEN.
const MinAdminTokenLength = 24

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("LDC_CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}
	if cfg.SettingsTimeout <= 0 {
		return nil, fmt.Errorf("LDC_SETTINGS_TIMEOUT must be positive, got %s", cfg.SettingsTimeout)
	}

	if cfg.RefreshEnabled() {
		if _, err := cron.ParseStandard(cfg.SettingsRefresh); err != nil {
			return nil, fmt.Errorf("LDC_SETTINGS_REFRESH is not a valid schedule: %w", err)
		}
	}

	if cfg.AdminToken != "" {
		if len(cfg.AdminToken) < MinAdminTokenLength {
			return nil, fmt.Errorf("LDC_ADMIN_TOKEN must be at least %d bytes long, got %d bytes; "+
				"generate one with: openssl rand -base64 32",
				MinAdminTokenLength, len(cfg.AdminToken))
		}
		for _, weak := range knownWeakTokens {
			if cfg.AdminToken == weak {
				return nil, fmt.Errorf("LDC_ADMIN_TOKEN is a known example value and must not be used")
			}
		}
		if !hasMinimumEntropy(cfg.AdminToken) {
			slog.Warn("LDC_ADMIN_TOKEN has low character diversity; " +
				"consider generating a random token with: openssl rand -base64 32")
		}
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
