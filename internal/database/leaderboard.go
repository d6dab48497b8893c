// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/tomtom215/roomscope/internal/database/query"
	"github.com/tomtom215/roomscope/internal/models"
)

// MostStalked ranks users by recorded profile views. With n > 0 only views
// from the last n days count; n == 0 ranks over all time.
func (db *DB) MostStalked(ctx context.Context, n, limit int) ([]models.StalkedEntry, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var since time.Time
	if n > 0 {
		since = db.windowStart(days(n))
	}
	wb := query.New().Since("pv.viewed_at", since)
	stmt, args := query.NewStatement(`SELECT u.user_id, u.username, u.followers_count, COUNT(*) AS view_count
		FROM profile_views pv
		JOIN users u ON u.user_id = pv.viewed_user_id`).
		Where(wb).
		Append("GROUP BY u.user_id, u.username, u.followers_count").
		Append("ORDER BY view_count DESC, u.followers_count DESC NULLS LAST, u.user_id").
		Limit(limit).
		Build()

	start := time.Now()
	entries, err := queryAndScan(ctx, db.conn, stmt, args, func(rows *sql.Rows) (models.StalkedEntry, error) {
		var (
			e         models.StalkedEntry
			username  sql.NullString
			followers sql.NullInt64
		)
		if err := rows.Scan(&e.UserID, &username, &followers, &e.ViewCount); err != nil {
			return e, err
		}
		e.Username = models.StringOrEmpty(username)
		e.FollowersCount = models.Int64Or0(followers)
		return e, nil
	})
	if err != nil {
		return nil, observe("most_stalked", "profile_views", start, err)
	}
	_ = observe("most_stalked", "profile_views", start, nil)

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// MostActive ranks users by total session time in the last n days. n <= 0
// ranks over all time, as MostStalked does.
func (db *DB) MostActive(ctx context.Context, n, limit int) ([]models.ActiveEntry, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var since time.Time
	if n > 0 {
		since = db.windowStart(days(n))
	}
	wb := query.New().Since("s.joined_at", since)
	stmt, args := query.NewStatement(`SELECT
			u.user_id,
			u.username,
			COUNT(*) AS session_count,
			COUNT(DISTINCT s.room_id) AS rooms_visited,
			CAST(COALESCE(SUM(s.duration_seconds), 0) AS BIGINT) AS total_duration
		FROM sessions s
		JOIN users u ON u.user_id = s.user_id`).
		Where(wb).
		Append("GROUP BY u.user_id, u.username").
		Append("ORDER BY total_duration DESC, session_count DESC, u.user_id").
		Limit(limit).
		Build()

	start := time.Now()
	entries, err := queryAndScan(ctx, db.conn, stmt, args, func(rows *sql.Rows) (models.ActiveEntry, error) {
		var (
			e        models.ActiveEntry
			username sql.NullString
		)
		if err := rows.Scan(&e.UserID, &username, &e.SessionCount, &e.RoomsVisited, &e.TotalDurationSeconds); err != nil {
			return e, err
		}
		e.Username = models.StringOrEmpty(username)
		return e, nil
	})
	if err != nil {
		return nil, observe("most_active", "sessions", start, err)
	}
	_ = observe("most_active", "sessions", start, nil)

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
