// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Token Codec) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Bookly API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) backing the token revocation list
	RedisURL string `env:"REDIS_URL,required"`

	// Symmetric signing secret shared by both token families. The bearer
	// codec uses it directly; the link codec derives per-purpose keys from it.
	JWTSecret string `env:"JWT_SECRET,required"`

	// Bearer token lifetimes
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"60m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"48h"`

	// URL-safe link token maximum age (email verification, password reset)
	LinkTokenMaxAge time.Duration `env:"LINK_TOKEN_MAX_AGE" envDefault:"1h"`

	// Outbound mail (SMTP relay) for verification and reset messages
	SMTPAddr string `env:"SMTP_ADDR"`
	SMTPFrom string `env:"SMTP_FROM" envDefault:"no-reply@bookly.app"`

	// PublicBaseURL is the externally visible origin used to build email links.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
