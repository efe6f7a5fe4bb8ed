// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

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
  - DI-Friendly: Passed to core components (DB, Redis, Cloudflare) via constructors.
  - Zero Hidden State: No global variables are used to store config.

All secrets (session signing key, Cloudflare API token, bootstrap credentials)
are supplied through the environment and validated at process start. Nothing
sensitive is ever compiled into the artifact.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Emailkuy API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// SessionSecret is the shared HMAC key that signs session tokens.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// Cloudflare REST API access
	CloudflareAPIToken string `env:"CLOUDFLARE_API_TOKEN,required"`
	CloudflareAPIBase  string `env:"CLOUDFLARE_API_BASE" envDefault:"https://api.cloudflare.com/client/v4"`

	// Bootstrap operator account, consumed once by the setup endpoint.
	// Both may be left empty to disable bootstrapping entirely.
	SetupUsername string `env:"SETUP_USERNAME"`
	SetupPassword string `env:"SETUP_PASSWORD"`
	SetupEmail    string `env:"SETUP_EMAIL"`
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

// HasBootstrapAccount reports whether a setup account is configured.
func (c *Config) HasBootstrapAccount() bool {
	return c.SetupUsername != "" && c.SetupPassword != ""
}
