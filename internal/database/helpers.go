// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package database

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/tomtom215/roomscope/internal/metrics"
)

// withTimeout bounds a query by the acquire timeout. The deadline covers the
// wait for a pooled connection, so a starved pool fails the request instead
// of blocking it.
func (db *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if db.cfg == nil || db.cfg.AcquireTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, db.cfg.AcquireTimeout)
}

// observe records query latency and failures. It returns err wrapped as a
// storage error so call sites can `return observe(...)`.
func observe(op, table string, start time.Time, err error) error {
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery(op, table, time.Since(start), "", nil)
		return err
	}
	wrapped := Storage(op, err)
	kind := KindOf(wrapped).String()
	if isTimeout(err) {
		kind = "timeout"
	}
	metrics.RecordDBQuery(op, table, time.Since(start), kind, wrapped)
	return wrapped
}

// scanFunc scans a single row into a result type.
type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan executes a query and scans all rows with scan. The result is
// never nil so empty lists serialize as [].
func queryAndScan[T any](ctx context.Context, conn *sql.DB, query string, args []interface{}, scan scanFunc[T]) ([]T, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	results := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// countRows runs a COUNT(*) statement.
func countRows(ctx context.Context, conn *sql.DB, query string, args []interface{}) (int64, error) {
	var total int64
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// closeQuietly closes a resource and ignores the error. Close failures on
// read paths are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// windowStart returns the instant `span` before the DB clock's now.
func (db *DB) windowStart(span time.Duration) time.Time {
	return db.Now().Add(-span)
}

// days converts a day count to a duration.
func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
