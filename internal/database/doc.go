// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

// Package database provides read access to the room presence tables and the
// one write the service performs, recording profile views.
//
// # Overview
//
// The tables are owned by an external ingestion process. Queries go through
// database/sql so the same code runs against Postgres (pgx stdlib driver)
// in production and DuckDB in development and tests. Parameters are always
// positional ($1..$N) and are assembled with the query subpackage.
//
// # Organisation
//
//   - database.go: lifecycle, driver selection, pool configuration
//   - errors.go: the error kinds handlers map to HTTP statuses
//   - helpers.go: timeouts, metrics and generic row scanning
//   - schema.go: DDL used for DuckDB bootstrap and integration tests
//   - seed.go: demo data for development
//   - users.go, rooms.go, shared_rooms.go, leaderboard.go, stats.go,
//     profile_views.go: one file per endpoint family
//
// # Portability
//
// Aggregates that DuckDB widens (SUM to HUGEINT) are cast back to BIGINT and
// averages are cast to FLOAT8 so both drivers scan into int64 and float64.
// Relative windows ("last N days") and the "now" used for open sessions are
// computed from the DB clock in Go and bound as parameters, which keeps the
// SQL identical across drivers and lets tests pin time.
//
// # Errors
//
// Every exported query returns an error wrapping one of ErrNotFound,
// ErrValidation or ErrStorage. Use KindOf to classify:
//
//	profile, err := db.GetUserProfile(ctx, "alice")
//	if database.KindOf(err) == database.KindNotFound {
//	    // 404
//	}
package database
