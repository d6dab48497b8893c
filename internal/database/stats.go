// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/tomtom215/roomscope/internal/models"
)

// GlobalStats returns the service-wide counters.
func (db *DB) GlobalStats(ctx context.Context) (models.GlobalStats, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	const statsQuery = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM rooms),
			(SELECT COUNT(*) FROM rooms WHERE is_active),
			(SELECT COUNT(*) FROM sessions),
			(SELECT COUNT(*) FROM sessions WHERE is_currently_active),
			(SELECT COUNT(DISTINCT user_id) FROM sessions WHERE is_currently_active),
			(SELECT COUNT(*) FROM sessions WHERE joined_at >= $1),
			(SELECT COUNT(*) FROM profile_views)`

	now := db.Now()
	var (
		stats models.GlobalStats
		vals  [8]sql.NullInt64
	)
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, statsQuery, now.Add(-24*time.Hour)).Scan(
		&vals[0], &vals[1], &vals[2], &vals[3], &vals[4], &vals[5], &vals[6], &vals[7])
	if err != nil {
		return stats, observe("global_stats", "all", start, err)
	}
	_ = observe("global_stats", "all", start, nil)

	stats.TotalUsers = models.Int64Or0(vals[0])
	stats.TotalRooms = models.Int64Or0(vals[1])
	stats.ActiveRooms = models.Int64Or0(vals[2])
	stats.TotalSessions = models.Int64Or0(vals[3])
	stats.ActiveSessions = models.Int64Or0(vals[4])
	stats.UsersOnline = models.Int64Or0(vals[5])
	stats.Sessions24h = models.Int64Or0(vals[6])
	stats.TotalProfileViews = models.Int64Or0(vals[7])
	stats.GeneratedAt = now
	return stats, nil
}

// groupedRoomStats aggregates rooms and their sessions by one room column.
// column is always one of the fixed names below, never user input.
func (db *DB) groupedRoomStats(ctx context.Context, op, column string, fn func(key string, rooms, active, sessions, users int64)) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	stmt := `SELECT
			r.` + column + ` AS grp,
			COUNT(DISTINCT r.room_id) AS room_count,
			COUNT(DISTINCT CASE WHEN r.is_active THEN r.room_id END) AS active_rooms,
			COUNT(s.session_id) AS total_sessions,
			COUNT(DISTINCT s.user_id) AS unique_users
		FROM rooms r
		LEFT JOIN sessions s ON s.room_id = r.room_id
		WHERE r.` + column + ` IS NOT NULL AND r.` + column + ` <> ''
		GROUP BY r.` + column + `
		ORDER BY total_sessions DESC, room_count DESC, grp`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, stmt)
	if err != nil {
		return observe(op, "rooms", start, err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var (
			key                            string
			rooms, active, sessions, users int64
		)
		if err := rows.Scan(&key, &rooms, &active, &sessions, &users); err != nil {
			return observe(op, "rooms", start, err)
		}
		fn(key, rooms, active, sessions, users)
	}
	return observe(op, "rooms", start, rows.Err())
}

// LanguageStats aggregates rooms and sessions per room language.
func (db *DB) LanguageStats(ctx context.Context) ([]models.LanguageStats, error) {
	out := make([]models.LanguageStats, 0)
	err := db.groupedRoomStats(ctx, "language_stats", "language", func(key string, rooms, active, sessions, users int64) {
		out = append(out, models.LanguageStats{
			Language:      key,
			RoomCount:     rooms,
			ActiveRooms:   active,
			TotalSessions: sessions,
			UniqueUsers:   users,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SkillStats aggregates rooms and sessions per room skill level.
func (db *DB) SkillStats(ctx context.Context) ([]models.SkillStats, error) {
	out := make([]models.SkillStats, 0)
	err := db.groupedRoomStats(ctx, "skill_stats", "skill_level", func(key string, rooms, active, sessions, users int64) {
		out = append(out, models.SkillStats{
			SkillLevel:    key,
			RoomCount:     rooms,
			ActiveRooms:   active,
			TotalSessions: sessions,
			UniqueUsers:   users,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
