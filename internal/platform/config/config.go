// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config maps environment variables onto a strongly-typed [Config].

A `.env` file in the working directory is loaded first when present, so local
runs need no exported variables. Real environment variables always win over the file.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the movie API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Output cache store (Redis)
	RedisURL string        `env:"REDIS_URL,required"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"1m"`

	// Bearer token validation (HS256)
	JWTKey      string `env:"JWT_KEY,required"`
	JWTIssuer   string `env:"JWT_ISSUER,required"`
	JWTAudience string `env:"JWT_AUDIENCE,required"`

	// APIKey grants admin access through the x-api-key header.
	APIKey string `env:"API_KEY,required"`

	// AllowedOriginSuffix restricts CORS origins outside development.
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX"`
}

// Load reads an optional .env file, then parses environment variables into a [Config].
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is [Load] with an explicit dotenv path. A missing file is not an error.
func LoadFrom(dotenvPath string) (*Config, error) {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to load %s: %w", dotenvPath, err)
	}

	cfg := &Config{}

	// Fails if any field marked 'required' is missing.
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

// OriginSuffix implements the CORS middleware's configuration contract.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
