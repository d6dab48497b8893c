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

// RoomFilter narrows room listings.
type RoomFilter struct {
	Language   string
	SkillLevel string
	Limit      int
}

// TimelineFilter narrows a room's join/leave stream.
type TimelineFilter struct {
	EventType string
	Limit     int
	Offset    int
}

// SnapshotFilter bounds a room's occupancy captures. Zero times are open.
type SnapshotFilter struct {
	Start time.Time
	End   time.Time
	Limit int
}

func scanRoomRow(rows *sql.Rows) (models.Room, error) {
	var row models.RoomRow
	if err := rows.Scan(row.ScanTargets()...); err != nil {
		return models.Room{}, err
	}
	return row.Shape(), nil
}

// getRoom loads a single room or returns a not-found error.
func (db *DB) getRoom(ctx context.Context, roomID string) (models.Room, error) {
	start := time.Now()
	var row models.RoomRow
	err := db.conn.QueryRowContext(ctx,
		"SELECT "+models.RoomColumns+" FROM rooms r WHERE r.room_id = $1", roomID).
		Scan(row.ScanTargets()...)
	if errors.Is(err, sql.ErrNoRows) {
		_ = observe("get_room", "rooms", start, nil)
		return models.Room{}, NotFound("room", roomID)
	}
	if err != nil {
		return models.Room{}, observe("get_room", "rooms", start, err)
	}
	_ = observe("get_room", "rooms", start, nil)
	return row.Shape(), nil
}

// GetRoom returns a room with its session statistics.
func (db *DB) GetRoom(ctx context.Context, roomID string) (models.RoomDetail, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	room, err := db.getRoom(ctx, roomID)
	if err != nil {
		return models.RoomDetail{}, err
	}

	const statsQuery = `
		SELECT
			COUNT(*),
			COUNT(DISTINCT s.user_id),
			CAST(COALESCE(SUM(s.duration_seconds), 0) AS BIGINT),
			CAST(AVG(s.duration_seconds) AS FLOAT8),
			COUNT(DISTINCT CASE WHEN s.is_currently_active THEN s.user_id END),
			CAST(GREATEST(
				COALESCE((SELECT MAX(a.peak_concurrent_users) FROM room_analytics a WHERE a.room_id = $1), 0),
				COALESCE((SELECT MAX(rs.participants_count) FROM room_snapshots rs WHERE rs.room_id = $1), 0)
			) AS BIGINT)
		FROM sessions s
		WHERE s.room_id = $1`

	var (
		sessions, users, total, active, peak sql.NullInt64
		avg                                  sql.NullFloat64
	)
	start := time.Now()
	err = db.conn.QueryRowContext(ctx, statsQuery, roomID).Scan(&sessions, &users, &total, &avg, &active, &peak)
	if err != nil {
		return models.RoomDetail{}, observe("room_statistics", "sessions", start, err)
	}
	_ = observe("room_statistics", "sessions", start, nil)

	stats := models.RoomStatistics{
		TotalSessions:        models.Int64Or0(sessions),
		UniqueUsers:          models.Int64Or0(users),
		TotalTimeSeconds:     models.Int64Or0(total),
		AvgSessionSeconds:    models.Float64Or0(avg),
		CurrentlyActiveUsers: models.Int64Or0(active),
		PeakConcurrentUsers:  models.Int64Or0(peak),
	}
	stats.Finalize()

	return models.RoomDetail{Room: room, Statistics: stats}, nil
}

// GetRoomParticipants returns the live roster when currentOnly is set, and
// otherwise every user who ever joined with per-user totals.
func (db *DB) GetRoomParticipants(ctx context.Context, roomID string, currentOnly bool) ([]models.Participant, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	if _, err := db.getRoom(ctx, roomID); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		participants []models.Participant
		err          error
	)
	if currentOnly {
		participants, err = queryAndScan(ctx, db.conn, `
			SELECT s.user_id, u.username, u.followers_count, s.joined_at, s.user_position, s.mic_was_on
			FROM sessions s
			LEFT JOIN users u ON u.user_id = s.user_id
			WHERE s.room_id = $1 AND s.is_currently_active
			ORDER BY s.user_position ASC NULLS LAST, s.joined_at, s.user_id`,
			[]interface{}{roomID}, scanLiveParticipant)
	} else {
		participants, err = queryAndScan(ctx, db.conn, `
			SELECT
				s.user_id,
				u.username,
				u.followers_count,
				COUNT(*) AS session_count,
				CAST(COALESCE(SUM(s.duration_seconds), 0) AS BIGINT) AS total_duration,
				MIN(s.joined_at) AS first_joined_at,
				MAX(s.joined_at) AS last_joined_at,
				BOOL_OR(COALESCE(s.is_currently_active, FALSE)) AS currently_active
			FROM sessions s
			LEFT JOIN users u ON u.user_id = s.user_id
			WHERE s.room_id = $1
			GROUP BY s.user_id, u.username, u.followers_count
			ORDER BY currently_active DESC, total_duration DESC, s.user_id`,
			[]interface{}{roomID}, scanHistoricalParticipant)
	}
	if err != nil {
		return nil, observe("room_participants", "sessions", start, err)
	}
	_ = observe("room_participants", "sessions", start, nil)
	return participants, nil
}

func scanLiveParticipant(rows *sql.Rows) (models.Participant, error) {
	var (
		p         models.Participant
		username  sql.NullString
		followers sql.NullInt64
		joined    sql.NullTime
		position  sql.NullInt64
		mic       sql.NullBool
	)
	if err := rows.Scan(&p.UserID, &username, &followers, &joined, &position, &mic); err != nil {
		return p, err
	}
	p.Username = models.StringOrEmpty(username)
	p.FollowersCount = models.Int64Or0(followers)
	p.IsCurrentlyActive = true
	p.JoinedAt = models.TimePtr(joined)
	if position.Valid {
		v := position.Int64
		p.UserPosition = &v
	}
	micOn := models.BoolOrFalse(mic)
	p.MicOn = &micOn
	return p, nil
}

func scanHistoricalParticipant(rows *sql.Rows) (models.Participant, error) {
	var (
		p                   models.Participant
		username            sql.NullString
		followers, sessions sql.NullInt64
		duration            sql.NullInt64
		first, last         sql.NullTime
		active              sql.NullBool
	)
	if err := rows.Scan(&p.UserID, &username, &followers, &sessions, &duration, &first, &last, &active); err != nil {
		return p, err
	}
	p.Username = models.StringOrEmpty(username)
	p.FollowersCount = models.Int64Or0(followers)
	p.SessionCount = models.Int64Or0(sessions)
	p.TotalDurationSeconds = models.Int64Or0(duration)
	p.FirstJoinedAt = models.TimePtr(first)
	p.LastJoinedAt = models.TimePtr(last)
	p.IsCurrentlyActive = models.BoolOrFalse(active)
	return p, nil
}

// GetRoomTimeline returns one page of the room's sessions, newest first.
// An event type outside join/leave is a validation error.
func (db *DB) GetRoomTimeline(ctx context.Context, roomID string, f TimelineFilter) (models.Page[models.Session], error) {
	wb := query.NewWithBase("s.room_id = ?", roomID)
	if err := wb.EqIn("s.event_type", f.EventType, models.EventTypes...); err != nil {
		return models.Page[models.Session]{}, Validation("event_type must be one of: join, leave")
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	if _, err := db.getRoom(ctx, roomID); err != nil {
		return models.Page[models.Session]{}, err
	}

	countSQL, countArgs := query.NewStatement("SELECT COUNT(*) FROM sessions s").Where(wb).Build()

	start := time.Now()
	total, err := countRows(ctx, db.conn, countSQL, countArgs)
	if err != nil {
		return models.Page[models.Session]{}, observe("room_timeline_count", "sessions", start, err)
	}

	pageSQL, pageArgs := query.NewStatement("SELECT " + models.SessionColumns + `
		FROM sessions s
		LEFT JOIN users u ON u.user_id = s.user_id`).
		Where(wb).
		Append("ORDER BY s.joined_at DESC, s.session_id DESC").
		Paginate(f.Limit, f.Offset).
		Build()

	items, err := queryAndScan(ctx, db.conn, pageSQL, pageArgs, scanSessionRow)
	if err != nil {
		return models.Page[models.Session]{}, observe("room_timeline", "sessions", start, err)
	}
	_ = observe("room_timeline", "sessions", start, nil)

	return models.NewPage(items, total, f.Limit, f.Offset), nil
}

// GetRoomSnapshots returns occupancy captures within the optional window,
// newest first, with the roster JSON parsed into participants.
func (db *DB) GetRoomSnapshots(ctx context.Context, roomID string, f SnapshotFilter) ([]models.RoomSnapshot, error) {
	if !f.Start.IsZero() && !f.End.IsZero() && f.End.Before(f.Start) {
		return nil, Validation("end_date must not be before start_date")
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	if _, err := db.getRoom(ctx, roomID); err != nil {
		return nil, err
	}

	wb := query.NewWithBase("rs.room_id = ?", roomID).
		Since("rs.snapshot_time", f.Start.UTC()).
		Until("rs.snapshot_time", f.End.UTC())
	stmt, args := query.NewStatement(`SELECT rs.snapshot_id, rs.room_id, rs.snapshot_time,
			rs.participants_count, rs.participants_json, rs.is_active
		FROM room_snapshots rs`).
		Where(wb).
		Append("ORDER BY rs.snapshot_time DESC, rs.snapshot_id DESC").
		Limit(f.Limit).
		Build()

	start := time.Now()
	snapshots, err := queryAndScan(ctx, db.conn, stmt, args, func(rows *sql.Rows) (models.RoomSnapshot, error) {
		var (
			s      models.RoomSnapshot
			at     sql.NullTime
			count  sql.NullInt64
			roster sql.NullString
			active sql.NullBool
		)
		if err := rows.Scan(&s.SnapshotID, &s.RoomID, &at, &count, &roster, &active); err != nil {
			return s, err
		}
		if at.Valid {
			s.SnapshotTime = at.Time.UTC()
		}
		s.ParticipantsCount = models.Int64Or0(count)
		s.Participants = models.ParseJSONBlob(roster)
		s.IsActive = models.BoolOrFalse(active)
		return s, nil
	})
	if err != nil {
		return nil, observe("room_snapshots", "room_snapshots", start, err)
	}
	_ = observe("room_snapshots", "room_snapshots", start, nil)
	return snapshots, nil
}

// GetRoomAnalytics returns the daily rollups of the last n days, newest first.
func (db *DB) GetRoomAnalytics(ctx context.Context, roomID string, n int) ([]models.RoomAnalytics, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	if _, err := db.getRoom(ctx, roomID); err != nil {
		return nil, err
	}

	cutoff := db.windowStart(days(n))
	stmt, args := query.NewStatement(`SELECT a.room_id, a.date, a.total_participants, a.unique_participants,
			a.total_sessions, a.avg_session_duration_seconds, a.peak_concurrent_users
		FROM room_analytics a`).
		Where(query.NewWithBase("a.room_id = ?", roomID).Where("a.date >= CAST(? AS DATE)", cutoff)).
		Append("ORDER BY a.date DESC").
		Build()

	start := time.Now()
	rollups, err := queryAndScan(ctx, db.conn, stmt, args, func(rows *sql.Rows) (models.RoomAnalytics, error) {
		var (
			a                           models.RoomAnalytics
			date                        sql.NullTime
			participants, unique, total sql.NullInt64
			peak                        sql.NullInt64
			avg                         sql.NullFloat64
		)
		if err := rows.Scan(&a.RoomID, &date, &participants, &unique, &total, &avg, &peak); err != nil {
			return a, err
		}
		if date.Valid {
			a.Date = date.Time.UTC().Format("2006-01-02")
		}
		a.TotalParticipants = models.Int64Or0(participants)
		a.UniqueParticipants = models.Int64Or0(unique)
		a.TotalSessions = models.Int64Or0(total)
		a.AvgSessionDurationSeconds = models.Float64Or0(avg)
		a.PeakConcurrentUsers = models.Int64Or0(peak)
		return a, nil
	})
	if err != nil {
		return nil, observe("room_analytics", "room_analytics", start, err)
	}
	_ = observe("room_analytics", "room_analytics", start, nil)
	return rollups, nil
}

// TrendingRooms ranks rooms by distinct users who joined within the last
// `hours`, then by session count.
func (db *DB) TrendingRooms(ctx context.Context, hours, limit int) ([]models.TrendingRoom, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	wb := query.New().Since("s.joined_at", db.windowStart(time.Duration(hours)*time.Hour))
	stmt, args := query.NewStatement("SELECT " + models.RoomColumns + `,
			COUNT(*) AS recent_sessions,
			COUNT(DISTINCT s.user_id) AS recent_unique_users
		FROM sessions s
		JOIN rooms r ON r.room_id = s.room_id`).
		Where(wb).
		Append("GROUP BY " + models.RoomColumns).
		Append("ORDER BY recent_unique_users DESC, recent_sessions DESC, r.room_id").
		Limit(limit).
		Build()

	start := time.Now()
	rooms, err := queryAndScan(ctx, db.conn, stmt, args, func(rows *sql.Rows) (models.TrendingRoom, error) {
		var (
			row              models.RoomRow
			sessions, unique sql.NullInt64
		)
		if err := rows.Scan(append(row.ScanTargets(), &sessions, &unique)...); err != nil {
			return models.TrendingRoom{}, err
		}
		return models.TrendingRoom{
			Room:              row.Shape(),
			RecentSessions:    models.Int64Or0(sessions),
			RecentUniqueUsers: models.Int64Or0(unique),
		}, nil
	})
	if err != nil {
		return nil, observe("trending_rooms", "sessions", start, err)
	}
	_ = observe("trending_rooms", "sessions", start, nil)
	return rooms, nil
}

// ActiveRooms lists active rooms, fullest first.
func (db *DB) ActiveRooms(ctx context.Context, f RoomFilter) ([]models.Room, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	wb := query.NewWithBase("r.is_active = TRUE").
		Eq("r.language", f.Language).
		Eq("r.skill_level", f.SkillLevel)
	stmt, args := query.NewStatement("SELECT " + models.RoomColumns + " FROM rooms r").
		Where(wb).
		Append("ORDER BY r.current_users_count DESC NULLS LAST, r.last_activity DESC NULLS LAST, r.room_id").
		Limit(f.Limit).
		Build()

	start := time.Now()
	rooms, err := queryAndScan(ctx, db.conn, stmt, args, scanRoomRow)
	if err != nil {
		return nil, observe("active_rooms", "rooms", start, err)
	}
	_ = observe("active_rooms", "rooms", start, nil)
	return rooms, nil
}

// SearchRooms matches q against topic and both languages. Active rooms
// come first, then fuller rooms, then recently active ones. Callers enforce
// the minimum query length.
func (db *DB) SearchRooms(ctx context.Context, q string, f RoomFilter) ([]models.Room, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	wb := query.New().
		ILikeAny([]string{"r.topic", "r.language", "r.second_language"}, q).
		Eq("r.language", f.Language).
		Eq("r.skill_level", f.SkillLevel)
	stmt, args := query.NewStatement("SELECT " + models.RoomColumns + " FROM rooms r").
		Where(wb).
		Append(`ORDER BY CASE WHEN r.is_active THEN 0 ELSE 1 END,
			r.current_users_count DESC NULLS LAST,
			r.last_activity DESC NULLS LAST,
			r.room_id`).
		Limit(f.Limit).
		Build()

	start := time.Now()
	rooms, err := queryAndScan(ctx, db.conn, stmt, args, scanRoomRow)
	if err != nil {
		return nil, observe("search_rooms", "rooms", start, err)
	}
	_ = observe("search_rooms", "rooms", start, nil)
	return rooms, nil
}
