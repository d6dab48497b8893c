// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Views    ViewsConfig    `koanf:"views"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds the storage connection and pool settings.
type DatabaseConfig struct {
	// Driver selects the backend: "postgres" (pgx) or "duckdb" (embedded).
	Driver string `koanf:"driver"`
	// URL is the Postgres connection string, including credentials, host,
	// port, database name and sslmode.
	URL string `koanf:"url"`
	// Path is the DuckDB file. Empty means in-memory.
	Path string `koanf:"path"`

	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	// AcquireTimeout bounds each query including the wait for a pooled
	// connection.
	AcquireTimeout time.Duration `koanf:"acquire_timeout"`

	// BootstrapSchema creates the tables on startup (duckdb only).
	BootstrapSchema bool `koanf:"bootstrap_schema"`
	SeedMockData    bool `koanf:"seed_mock_data"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// APIConfig holds list sizing and response caching settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
	// CacheTTL applies to /stats* and leaderboards. Zero disables caching.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// ViewsConfig configures profile view recording.
type ViewsConfig struct {
	// Transport is "memory" (watermill gochannel) or "nats" (JetStream,
	// requires the nats build tag).
	Transport string `koanf:"transport"`
	NATSURL   string `koanf:"nats_url"`
	Topic     string `koanf:"topic"`
	// MaxPerSecond caps accepted submissions. Zero means unlimited.
	MaxPerSecond float64 `koanf:"max_per_second"`
	// BufferSize is the gochannel output buffer.
	BufferSize int64 `koanf:"buffer_size"`

	InsertTimeout           time.Duration `koanf:"insert_timeout"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
	RouterCloseTimeout      time.Duration `koanf:"router_close_timeout"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsPostgres reports whether the configured backend is Postgres.
func (c *Config) IsPostgres() bool {
	return c.Database.Driver == DriverPostgres
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
)

// Supported view transports.
const (
	TransportMemory = "memory"
	TransportNATS   = "nats"
)
