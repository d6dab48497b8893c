// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tomtom215/roomscope/internal/database/query"
	"github.com/tomtom215/roomscope/internal/models"
)

// UserRoomsFilter narrows a user's room history.
type UserRoomsFilter struct {
	Language   string
	SkillLevel string
	Limit      int
	Offset     int
}

// ResolveUser finds a user by identity first: an exact user_id match wins,
// and only when there is none is a case-insensitive username match tried.
// Several accounts can share a username; the lowest user_id is returned.
func (db *DB) ResolveUser(ctx context.Context, idOrName string) (models.User, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	byID := "SELECT " + models.UserColumns + " FROM users u WHERE u.user_id = $1"
	user, err := db.scanUser(ctx, "resolve_user_id", byID, idOrName)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, err
	}

	byName := "SELECT " + models.UserColumns + ` FROM users u
		WHERE LOWER(u.username) = LOWER(CAST($1 AS VARCHAR))
		ORDER BY u.user_id
		LIMIT 1`
	user, err = db.scanUser(ctx, "resolve_username", byName, idOrName)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, NotFound("user", idOrName)
	}
	return user, err
}

func (db *DB) scanUser(ctx context.Context, op, stmt string, args ...interface{}) (models.User, error) {
	start := time.Now()
	var row models.UserRow
	err := db.conn.QueryRowContext(ctx, stmt, args...).Scan(row.ScanTargets()...)
	if err != nil {
		return models.User{}, observe(op, "users", start, err)
	}
	_ = observe(op, "users", start, nil)
	return row.Shape(), nil
}

func scanUserRow(rows *sql.Rows) (models.User, error) {
	var row models.UserRow
	if err := rows.Scan(row.ScanTargets()...); err != nil {
		return models.User{}, err
	}
	return row.Shape(), nil
}

// SearchUsers returns users whose username contains q, ranked in tiers:
// exact case-insensitive match, then prefix match, then any other substring
// match. Within a tier users with more followers, then more sessions, come
// first. Callers enforce the minimum query length.
func (db *DB) SearchUsers(ctx context.Context, q string, limit int) ([]models.User, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	wb := query.New().ILike("u.username", q)
	stmt, args := query.NewStatement("SELECT " + models.UserColumns + " FROM users u").
		Where(wb).
		Append(`ORDER BY CASE
				WHEN LOWER(u.username) = LOWER(CAST(? AS VARCHAR)) THEN 0
				WHEN u.username ILIKE ? ESCAPE '\' THEN 1
				ELSE 2
			END,
			u.followers_count DESC NULLS LAST,
			u.total_sessions DESC NULLS LAST,
			u.user_id`, q, query.PrefixPattern(q)).
		Limit(limit).
		Build()

	start := time.Now()
	users, err := queryAndScan(ctx, db.conn, stmt, args, scanUserRow)
	if err != nil {
		return nil, observe("search_users", "users", start, err)
	}
	_ = observe("search_users", "users", start, nil)
	return users, nil
}

// GetUserProfile resolves a user and merges the session statistics and
// favorite language into its profile.
func (db *DB) GetUserProfile(ctx context.Context, idOrName string) (models.UserProfile, error) {
	user, err := db.ResolveUser(ctx, idOrName)
	if err != nil {
		return models.UserProfile{}, err
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	stats, err := db.userStatistics(ctx, user.UserID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return models.UserProfile{User: user, Statistics: stats}, nil
}

func (db *DB) userStatistics(ctx context.Context, userID string) (models.UserStatistics, error) {
	const statsQuery = `
		SELECT
			COUNT(DISTINCT s.room_id),
			COUNT(*),
			CAST(COALESCE(SUM(s.duration_seconds), 0) AS BIGINT),
			CAST(AVG(s.duration_seconds) AS FLOAT8),
			MAX(s.joined_at),
			CAST(COALESCE(SUM(CASE WHEN s.is_currently_active THEN 1 ELSE 0 END), 0) AS BIGINT)
		FROM sessions s
		WHERE s.user_id = $1`

	var (
		rooms, sessions, total, active sql.NullInt64
		avg                            sql.NullFloat64
		last                           sql.NullTime
	)
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, statsQuery, userID).Scan(&rooms, &sessions, &total, &avg, &last, &active)
	if err != nil {
		return models.UserStatistics{}, observe("user_statistics", "sessions", start, err)
	}
	_ = observe("user_statistics", "sessions", start, nil)

	stats := models.UserStatistics{
		TotalRoomsJoined:  models.Int64Or0(rooms),
		TotalSessions:     models.Int64Or0(sessions),
		TotalTimeSeconds:  models.Int64Or0(total),
		AvgSessionSeconds: models.Float64Or0(avg),
		LastSessionAt:     models.TimePtr(last),
		IsCurrentlyActive: models.Int64Or0(active) > 0,
	}

	if stats.IsCurrentlyActive {
		roomID, err := db.nullableString(ctx, "user_current_room", "sessions", `
			SELECT s.room_id FROM sessions s
			WHERE s.user_id = $1 AND s.is_currently_active
			ORDER BY s.joined_at DESC
			LIMIT 1`, userID)
		if err != nil {
			return models.UserStatistics{}, err
		}
		stats.CurrentRoomID = roomID
	}

	favorite, err := db.nullableString(ctx, "user_favorite_language", "sessions", `
		SELECT r.language
		FROM sessions s
		JOIN rooms r ON r.room_id = s.room_id
		WHERE s.user_id = $1 AND r.language IS NOT NULL AND r.language <> ''
		GROUP BY r.language
		ORDER BY COUNT(*) DESC, r.language
		LIMIT 1`, userID)
	if err != nil {
		return models.UserStatistics{}, err
	}
	stats.FavoriteLanguage = favorite

	return stats, nil
}

// nullableString runs a single-value query; no row yields nil.
func (db *DB) nullableString(ctx context.Context, op, table, stmt string, args ...interface{}) (*string, error) {
	start := time.Now()
	var v sql.NullString
	err := db.conn.QueryRowContext(ctx, stmt, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		_ = observe(op, table, start, nil)
		return nil, nil
	}
	if err != nil {
		return nil, observe(op, table, start, err)
	}
	_ = observe(op, table, start, nil)
	return models.StringPtr(v), nil
}

// GetUserHistory returns the user's activity log, newest first, optionally
// restricted to one activity type.
func (db *DB) GetUserHistory(ctx context.Context, idOrName, activityType string, limit int) ([]models.ActivityLog, error) {
	user, err := db.ResolveUser(ctx, idOrName)
	if err != nil {
		return nil, err
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	wb := query.NewWithBase("l.user_id = ?", user.UserID).Eq("l.activity_type", activityType)
	stmt, args := query.NewStatement(`SELECT l.log_id, l.user_id, l.activity_type, l.activity_data, l.activity_time
		FROM user_activity_log l`).
		Where(wb).
		Append("ORDER BY l.activity_time DESC, l.log_id DESC").
		Limit(limit).
		Build()

	start := time.Now()
	logs, err := queryAndScan(ctx, db.conn, stmt, args, func(rows *sql.Rows) (models.ActivityLog, error) {
		var (
			entry models.ActivityLog
			typ   sql.NullString
			data  sql.NullString
			at    sql.NullTime
		)
		if err := rows.Scan(&entry.LogID, &entry.UserID, &typ, &data, &at); err != nil {
			return entry, err
		}
		entry.ActivityType = models.StringOrEmpty(typ)
		entry.ActivityData = models.ParseJSONBlob(data)
		if at.Valid {
			entry.ActivityTime = at.Time.UTC()
		}
		return entry, nil
	})
	if err != nil {
		return nil, observe("user_history", "user_activity_log", start, err)
	}
	_ = observe("user_history", "user_activity_log", start, nil)
	return logs, nil
}

// GetUserRooms returns one page of the rooms a user has joined, most
// recently joined first, with per-room session totals.
func (db *DB) GetUserRooms(ctx context.Context, idOrName string, f UserRoomsFilter) (models.Page[models.UserRoomHistory], error) {
	user, err := db.ResolveUser(ctx, idOrName)
	if err != nil {
		return models.Page[models.UserRoomHistory]{}, err
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	wb := query.NewWithBase("s.user_id = ?", user.UserID).
		Eq("r.language", f.Language).
		Eq("r.skill_level", f.SkillLevel)

	countSQL, countArgs := query.NewStatement(`SELECT COUNT(DISTINCT s.room_id)
		FROM sessions s
		LEFT JOIN rooms r ON r.room_id = s.room_id`).
		Where(wb).
		Build()

	start := time.Now()
	total, err := countRows(ctx, db.conn, countSQL, countArgs)
	if err != nil {
		return models.Page[models.UserRoomHistory]{}, observe("user_rooms_count", "sessions", start, err)
	}

	pageSQL, pageArgs := query.NewStatement(`SELECT
			s.room_id,
			r.topic,
			r.language,
			r.skill_level,
			r.is_active,
			COUNT(*) AS session_count,
			CAST(COALESCE(SUM(s.duration_seconds), 0) AS BIGINT) AS total_duration,
			MIN(s.joined_at) AS first_joined_at,
			MAX(s.joined_at) AS last_joined_at,
			BOOL_OR(COALESCE(s.is_currently_active, FALSE)) AS in_room
		FROM sessions s
		LEFT JOIN rooms r ON r.room_id = s.room_id`).
		Where(wb).
		Append("GROUP BY s.room_id, r.topic, r.language, r.skill_level, r.is_active").
		Append("ORDER BY last_joined_at DESC, s.room_id").
		Paginate(f.Limit, f.Offset).
		Build()

	items, err := queryAndScan(ctx, db.conn, pageSQL, pageArgs, func(rows *sql.Rows) (models.UserRoomHistory, error) {
		var (
			h                       models.UserRoomHistory
			topic, language, skill  sql.NullString
			active, inRoom          sql.NullBool
			sessions, duration      sql.NullInt64
			firstJoined, lastJoined sql.NullTime
		)
		if err := rows.Scan(&h.RoomID, &topic, &language, &skill, &active,
			&sessions, &duration, &firstJoined, &lastJoined, &inRoom); err != nil {
			return h, err
		}
		h.Topic = models.StringOrEmpty(topic)
		h.Language = models.StringOrEmpty(language)
		h.SkillLevel = models.StringOrEmpty(skill)
		h.RoomIsActive = models.BoolOrFalse(active)
		h.SessionCount = models.Int64Or0(sessions)
		h.TotalDurationSeconds = models.Int64Or0(duration)
		h.FirstJoinedAt = models.TimePtr(firstJoined)
		h.LastJoinedAt = models.TimePtr(lastJoined)
		h.IsCurrentlyInRoom = models.BoolOrFalse(inRoom)
		return h, nil
	})
	if err != nil {
		return models.Page[models.UserRoomHistory]{}, observe("user_rooms", "sessions", start, err)
	}
	_ = observe("user_rooms", "sessions", start, nil)

	return models.NewPage(items, total, f.Limit, f.Offset), nil
}

// GetUserRoomSessions returns every session of one user in one room,
// newest first.
func (db *DB) GetUserRoomSessions(ctx context.Context, idOrName, roomID string) ([]models.Session, error) {
	user, err := db.ResolveUser(ctx, idOrName)
	if err != nil {
		return nil, err
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	wb := query.NewWithBase("s.user_id = ?", user.UserID).Where("s.room_id = ?", roomID)
	stmt, args := query.NewStatement("SELECT " + models.SessionColumns + `
		FROM sessions s
		LEFT JOIN users u ON u.user_id = s.user_id`).
		Where(wb).
		Append("ORDER BY s.joined_at DESC, s.session_id").
		Build()

	start := time.Now()
	sessions, err := queryAndScan(ctx, db.conn, stmt, args, scanSessionRow)
	if err != nil {
		return nil, observe("user_room_sessions", "sessions", start, err)
	}
	_ = observe("user_room_sessions", "sessions", start, nil)
	return sessions, nil
}

func scanSessionRow(rows *sql.Rows) (models.Session, error) {
	var row models.SessionRow
	if err := rows.Scan(row.ScanTargets()...); err != nil {
		return models.Session{}, err
	}
	return row.Shape(), nil
}
