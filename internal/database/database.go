// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tomtom215/roomscope/internal/config"
	"github.com/tomtom215/roomscope/internal/logging"
	"github.com/tomtom215/roomscope/internal/metrics"
)

// sql.Open driver names registered by the blank imports above.
const (
	sqlDriverPgx    = "pgx"
	sqlDriverDuckDB = "duckdb"
)

// DB wraps the connection pool and provides the query methods.
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	driver string
	now    func() time.Time
}

// New opens the configured backend, configures the pool and verifies the
// connection. With DuckDB the schema is created when BootstrapSchema is set.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	driverName, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:   conn,
		cfg:    cfg,
		driver: cfg.Driver,
		now:    time.Now,
	}
	db.configureConnectionPool()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverDuckDB && cfg.BootstrapSchema {
		if err := db.BootstrapSchema(ctx); err != nil {
			closeQuietly(conn)
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	logging.Info().
		Str("driver", cfg.Driver).
		Int("max_open_conns", cfg.MaxOpenConns).
		Dur("acquire_timeout", cfg.AcquireTimeout).
		Msg("Database connected")

	return db, nil
}

// dataSource maps the configured driver to a database/sql driver name and DSN.
func dataSource(cfg *config.DatabaseConfig) (string, string, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.URL == "" {
			return "", "", fmt.Errorf("database url is required for the postgres driver")
		}
		return sqlDriverPgx, cfg.URL, nil
	case config.DriverDuckDB:
		if cfg.Path == "" {
			return sqlDriverDuckDB, "", nil
		}
		// Create the parent directory so a fresh deployment can start with
		// an empty data volume.
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return "", "", fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		return sqlDriverDuckDB, cfg.Path + "?access_mode=read_write", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// configureConnectionPool applies the configured pool limits.
func (db *DB) configureConnectionPool() {
	if db.cfg.MaxOpenConns > 0 {
		db.conn.SetMaxOpenConns(db.cfg.MaxOpenConns)
	}
	if db.cfg.MaxIdleConns > 0 {
		db.conn.SetMaxIdleConns(db.cfg.MaxIdleConns)
	}
	if db.cfg.ConnMaxLifetime > 0 {
		db.conn.SetConnMaxLifetime(db.cfg.ConnMaxLifetime)
	}
	if db.cfg.ConnMaxIdleTime > 0 {
		db.conn.SetConnMaxIdleTime(db.cfg.ConnMaxIdleTime)
	}
}

// Ping verifies the store is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close releases the pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Conn returns the underlying pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver returns the configured backend name ("postgres" or "duckdb").
func (db *DB) Driver() string {
	return db.driver
}

// SetClock replaces the clock used for relative windows and open sessions.
// Intended for tests.
func (db *DB) SetClock(now func() time.Time) {
	db.now = now
}

// Now returns the current time in UTC according to the DB clock.
func (db *DB) Now() time.Time {
	return db.now().UTC()
}

// Stats returns pool statistics and mirrors them into the pool gauges.
func (db *DB) Stats() sql.DBStats {
	stats := db.conn.Stats()
	metrics.RecordPoolStats(stats)
	return stats
}
