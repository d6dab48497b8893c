// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

/*
schema.go - Table Definitions

The ingestion process owns these tables in production. The DDL here mirrors
its layout closely enough for the service's queries and is used to bootstrap
an embedded DuckDB database and the Postgres integration test container.

Tables:
  - users: profile and activity counters per account
  - rooms: room descriptors and live occupancy
  - sessions: one row per join/leave cycle, left_at NULL while active
  - profile_views: the only table this service writes
  - room_snapshots: periodic occupancy captures with a JSON roster
  - room_analytics: daily per-room rollups
  - user_activity_log: per-user event stream with a JSON payload

Types are restricted to names both DuckDB and Postgres accept (VARCHAR,
BIGINT, FLOAT8, BOOLEAN, TIMESTAMP, DATE).
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 60*time.Second)
}

var tableDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id VARCHAR PRIMARY KEY,
		username VARCHAR,
		followers_count BIGINT,
		following_count BIGINT,
		friends_count BIGINT,
		supporter_level BIGINT,
		verification_status VARCHAR,
		profile_views_count BIGINT,
		total_sessions BIGINT,
		total_duration_seconds BIGINT,
		first_seen TIMESTAMP,
		last_seen TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		room_id VARCHAR PRIMARY KEY,
		language VARCHAR,
		second_language VARCHAR,
		skill_level VARCHAR,
		topic VARCHAR,
		max_capacity BIGINT,
		is_locked BOOLEAN,
		allows_unlimited_audience BOOLEAN,
		mic_allowed BOOLEAN,
		is_active BOOLEAN,
		current_users_count BIGINT,
		creator_user_id VARCHAR,
		creator_name VARCHAR,
		first_seen TIMESTAMP,
		last_activity TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		session_id VARCHAR PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		room_id VARCHAR NOT NULL,
		joined_at TIMESTAMP NOT NULL,
		left_at TIMESTAMP,
		duration_seconds BIGINT,
		is_currently_active BOOLEAN,
		event_type VARCHAR,
		user_position BIGINT,
		mic_was_on BOOLEAN
	)`,
	`CREATE TABLE IF NOT EXISTS profile_views (
		view_id VARCHAR PRIMARY KEY,
		viewed_user_id VARCHAR NOT NULL,
		viewer_ip VARCHAR(50),
		viewer_user_agent VARCHAR(255),
		viewed_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS room_snapshots (
		snapshot_id BIGINT PRIMARY KEY,
		room_id VARCHAR NOT NULL,
		snapshot_time TIMESTAMP NOT NULL,
		participants_count BIGINT,
		participants_json VARCHAR,
		is_active BOOLEAN
	)`,
	`CREATE TABLE IF NOT EXISTS room_analytics (
		room_id VARCHAR NOT NULL,
		date DATE NOT NULL,
		total_participants BIGINT,
		unique_participants BIGINT,
		total_sessions BIGINT,
		avg_session_duration_seconds FLOAT8,
		peak_concurrent_users BIGINT,
		PRIMARY KEY (room_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS user_activity_log (
		log_id BIGINT PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		activity_type VARCHAR,
		activity_data VARCHAR,
		activity_time TIMESTAMP NOT NULL
	)`,
}

var indexDDL = []string{
	`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_room ON sessions (room_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_joined ON sessions (joined_at)`,
	`CREATE INDEX IF NOT EXISTS idx_profile_views_user ON profile_views (viewed_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_room_time ON room_snapshots (room_id, snapshot_time)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_user_time ON user_activity_log (user_id, activity_time)`,
}

// BootstrapSchema creates any missing tables and indexes. It is idempotent.
func (db *DB) BootstrapSchema(ctx context.Context) error {
	ctx, cancel := schemaContext(ctx)
	defer cancel()

	for _, stmt := range tableDDL {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// tables lists the schema's tables in dependency-free order.
var tables = []string{
	"users", "rooms", "sessions", "profile_views",
	"room_snapshots", "room_analytics", "user_activity_log",
}

// Truncate deletes every row from every table. Used by tests and by
// the seeder before loading demo data.
func (db *DB) Truncate(ctx context.Context) error {
	for _, t := range tables {
		if _, err := db.conn.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("failed to clear %s: %w", t, err)
		}
	}
	return nil
}
