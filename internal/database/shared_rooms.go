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

// sharedRoomsQuery pairs every session of user A with every session of
// user B in the same room and keeps the pairs whose intervals intersect.
// An open session ends at $3 (now). Per room it reports the number of
// overlapping pairs, the earliest overlap start and the latest overlap end.
const sharedRoomsQuery = `
WITH a AS (
	SELECT session_id, room_id, joined_at, COALESCE(left_at, $3) AS ended_at
	FROM sessions
	WHERE user_id = $1
),
b AS (
	SELECT session_id, room_id, joined_at, COALESCE(left_at, $3) AS ended_at
	FROM sessions
	WHERE user_id = $2
),
pairs AS (
	SELECT
		a.room_id,
		a.session_id AS a_session,
		b.session_id AS b_session,
		GREATEST(a.joined_at, b.joined_at) AS overlap_start,
		LEAST(a.ended_at, b.ended_at) AS overlap_end
	FROM a
	JOIN b ON a.room_id = b.room_id
	WHERE a.joined_at <= b.ended_at AND b.joined_at <= a.ended_at
)
SELECT
	p.room_id,
	r.topic,
	r.language,
	r.skill_level,
	COUNT(*) AS overlap_count,
	MIN(p.overlap_start) AS first_overlap_time,
	MAX(p.overlap_end) AS last_overlap_time,
	COUNT(DISTINCT p.a_session) AS user1_sessions,
	COUNT(DISTINCT p.b_session) AS user2_sessions
FROM pairs p
LEFT JOIN rooms r ON r.room_id = p.room_id
GROUP BY p.room_id, r.topic, r.language, r.skill_level
HAVING COUNT(*) >= $4
ORDER BY overlap_count DESC, last_overlap_time DESC, p.room_id`

// GetSharedRooms resolves both users and returns the rooms where their
// sessions overlapped at least minOverlaps times. Values below 1 are
// raised to 1. The analysis is symmetric: swapping the users only swaps
// the per-user session counts.
func (db *DB) GetSharedRooms(ctx context.Context, user1, user2 string, minOverlaps int) (models.SharedRoomsResult, error) {
	if minOverlaps < 1 {
		minOverlaps = 1
	}

	u1, err := db.ResolveUser(ctx, user1)
	if err != nil {
		return models.SharedRoomsResult{}, err
	}
	u2, err := db.ResolveUser(ctx, user2)
	if err != nil {
		return models.SharedRoomsResult{}, err
	}
	if u1.UserID == u2.UserID {
		return models.SharedRoomsResult{}, Validation("cannot compare a user with themselves")
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rooms, err := queryAndScan(ctx, db.conn, sharedRoomsQuery,
		[]interface{}{u1.UserID, u2.UserID, db.Now(), minOverlaps},
		func(rows *sql.Rows) (models.SharedRoom, error) {
			var (
				sr                     models.SharedRoom
				topic, language, skill sql.NullString
				first, last            sql.NullTime
			)
			if err := rows.Scan(&sr.RoomID, &topic, &language, &skill, &sr.OverlapCount,
				&first, &last, &sr.User1Sessions, &sr.User2Sessions); err != nil {
				return sr, err
			}
			sr.Topic = models.StringOrEmpty(topic)
			sr.Language = models.StringOrEmpty(language)
			sr.SkillLevel = models.StringOrEmpty(skill)
			if first.Valid {
				sr.FirstOverlapTime = first.Time.UTC()
			}
			if last.Valid {
				sr.LastOverlapTime = last.Time.UTC()
			}
			return sr, nil
		})
	if err != nil {
		return models.SharedRoomsResult{}, observe("shared_rooms", "sessions", start, err)
	}
	_ = observe("shared_rooms", "sessions", start, nil)

	return models.SharedRoomsResult{
		User1:            u1.Ref(),
		User2:            u2.Ref(),
		SharedRooms:      rooms,
		TotalSharedRooms: len(rooms),
	}, nil
}
