// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/roomscope/internal/logging"
)

// seedUser, seedRoom and seedSession are the rows the seeder and the
// package tests write. Zero values are stored as NULL where the column
// allows it.
type seedUser struct {
	ID        string
	Username  string
	Followers int64
	Sessions  int64
	FirstSeen time.Time
}

type seedRoom struct {
	ID          string
	Language    string
	SkillLevel  string
	Topic       string
	MaxCapacity int64
	Current     int64
	Active      bool
	Creator     string
}

type seedSession struct {
	ID       string
	UserID   string
	RoomID   string
	JoinedAt time.Time
	LeftAt   time.Time // zero while active
	Position int64
	MicOn    bool
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func (db *DB) insertUser(ctx context.Context, u seedUser) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (user_id, username, followers_count, following_count, friends_count,
			supporter_level, verification_status, profile_views_count, total_sessions,
			total_duration_seconds, first_seen, last_seen)
		VALUES ($1, $2, $3, 0, 0, 0, 'none', 0, $4, 0, $5, $5)`,
		u.ID, u.Username, u.Followers, u.Sessions, nullTime(u.FirstSeen))
	if err != nil {
		return fmt.Errorf("failed to insert user %s: %w", u.ID, err)
	}
	return nil
}

func (db *DB) insertRoom(ctx context.Context, r seedRoom) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO rooms (room_id, language, second_language, skill_level, topic, max_capacity,
			is_locked, allows_unlimited_audience, mic_allowed, is_active, current_users_count,
			creator_user_id, creator_name, first_seen, last_activity)
		VALUES ($1, $2, NULL, $3, $4, $5, FALSE, FALSE, TRUE, $6, $7, $8, $8, $9, $9)`,
		r.ID, r.Language, r.SkillLevel, r.Topic, r.MaxCapacity, r.Active, r.Current, r.Creator, db.Now())
	if err != nil {
		return fmt.Errorf("failed to insert room %s: %w", r.ID, err)
	}
	return nil
}

func (db *DB) insertSession(ctx context.Context, s seedSession) error {
	active := s.LeftAt.IsZero()
	var duration int64
	if !active {
		duration = int64(s.LeftAt.Sub(s.JoinedAt).Seconds())
	}
	eventType := "leave"
	if active {
		eventType = "join"
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO sessions (session_id, user_id, room_id, joined_at, left_at, duration_seconds,
			is_currently_active, event_type, user_position, mic_was_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.UserID, s.RoomID, s.JoinedAt.UTC(), nullTime(s.LeftAt), duration,
		active, eventType, s.Position, s.MicOn)
	if err != nil {
		return fmt.Errorf("failed to insert session %s: %w", s.ID, err)
	}
	return nil
}

// SeedMockData loads a small, realistic demo data set: users, rooms,
// sessions over the last two weeks, profile views, snapshots, daily rollups
// and activity entries. Existing rows are removed first.
func (db *DB) SeedMockData(ctx context.Context) error {
	logging.Info().Msg("Seeding database with mock data...")

	// Fixed seed so demo screenshots are reproducible.
	rng := rand.New(rand.NewSource(20260301)) //nolint:gosec // demo data

	const (
		numSessions   = 400
		numViews      = 150
		daysOfHistory = 14
	)

	usernames := []string{
		"alice", "alice99", "bob", "carla", "dmitri", "emma", "farid", "grace",
		"hiro", "isabel", "jonas", "kemal", "lena", "mateo", "noor", "olga",
	}
	rooms := []seedRoom{
		{ID: "room-en-beg", Language: "English", SkillLevel: "beginner", Topic: "Daily small talk", MaxCapacity: 8},
		{ID: "room-en-adv", Language: "English", SkillLevel: "advanced", Topic: "Debate club", MaxCapacity: 6},
		{ID: "room-es-int", Language: "Spanish", SkillLevel: "intermediate", Topic: "Viajes y cultura", MaxCapacity: 10},
		{ID: "room-de-beg", Language: "German", SkillLevel: "beginner", Topic: "Grammatik Fragen", MaxCapacity: 5},
		{ID: "room-ja-int", Language: "Japanese", SkillLevel: "intermediate", Topic: "Anime and manga", MaxCapacity: 0},
		{ID: "room-fr-adv", Language: "French", SkillLevel: "advanced", Topic: "Litterature", MaxCapacity: 4},
	}

	if err := db.Truncate(ctx); err != nil {
		return err
	}

	now := db.Now()
	historyStart := now.AddDate(0, 0, -daysOfHistory)

	logging.Info().Int("count", len(usernames)).Msg("Creating mock users...")
	for i, name := range usernames {
		u := seedUser{
			ID:        fmt.Sprintf("u%03d", i+1),
			Username:  name,
			Followers: int64(rng.Intn(1000)),
			FirstSeen: historyStart,
		}
		if err := db.insertUser(ctx, u); err != nil {
			return err
		}
	}

	logging.Info().Int("count", numSessions).Msg("Creating mock sessions...")
	occupancy := make(map[string]int64)
	for i := 0; i < numSessions; i++ {
		room := rooms[rng.Intn(len(rooms))]
		joined := historyStart.Add(time.Duration(rng.Int63n(int64(daysOfHistory * 24 * time.Hour))))
		left := joined.Add(time.Duration(5+rng.Intn(115)) * time.Minute)
		if left.After(now) || rng.Intn(40) == 0 {
			left = time.Time{}
			occupancy[room.ID]++
		}
		s := seedSession{
			ID:       uuid.New().String(),
			UserID:   fmt.Sprintf("u%03d", rng.Intn(len(usernames))+1),
			RoomID:   room.ID,
			JoinedAt: joined,
			LeftAt:   left,
			Position: int64(rng.Intn(8) + 1),
			MicOn:    rng.Intn(2) == 0,
		}
		if err := db.insertSession(ctx, s); err != nil {
			return err
		}
	}

	for _, r := range rooms {
		r.Current = occupancy[r.ID]
		r.Active = r.Current > 0
		r.Creator = "u001"
		if err := db.insertRoom(ctx, r); err != nil {
			return err
		}
	}

	logging.Info().Int("count", numViews).Msg("Creating mock profile views...")
	for i := 0; i < numViews; i++ {
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO profile_views (view_id, viewed_user_id, viewer_ip, viewer_user_agent, viewed_at)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New().String(),
			fmt.Sprintf("u%03d", rng.Intn(len(usernames))+1),
			fmt.Sprintf("10.0.%d.%d", rng.Intn(256), rng.Intn(256)),
			"Mozilla/5.0 (demo)",
			historyStart.Add(time.Duration(rng.Int63n(int64(daysOfHistory*24*time.Hour)))))
		if err != nil {
			return fmt.Errorf("failed to seed profile view %d: %w", i, err)
		}
	}

	if err := db.seedRoomHistory(ctx, rng, rooms, now, daysOfHistory); err != nil {
		return err
	}
	if err := db.seedActivity(ctx, rng, len(usernames), now); err != nil {
		return err
	}

	logging.Info().
		Int("users", len(usernames)).
		Int("rooms", len(rooms)).
		Int("sessions", numSessions).
		Int("days", daysOfHistory).
		Msg("Mock data seeded successfully")
	return nil
}

// seedRoomHistory writes hourly snapshots for the last day and a daily
// rollup per room.
func (db *DB) seedRoomHistory(ctx context.Context, rng *rand.Rand, rooms []seedRoom, now time.Time, history int) error {
	snapshotID := int64(1)
	for _, r := range rooms {
		for h := 0; h < 24; h++ {
			count := rng.Intn(6)
			roster := make([]map[string]interface{}, count)
			for i := range roster {
				roster[i] = map[string]interface{}{
					"user_id":  fmt.Sprintf("u%03d", rng.Intn(16)+1),
					"position": i + 1,
				}
			}
			blob, err := json.Marshal(roster)
			if err != nil {
				return fmt.Errorf("failed to encode roster: %w", err)
			}
			_, err = db.conn.ExecContext(ctx, `
				INSERT INTO room_snapshots (snapshot_id, room_id, snapshot_time, participants_count, participants_json, is_active)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				snapshotID, r.ID, now.Add(-time.Duration(h)*time.Hour), count, string(blob), count > 0)
			if err != nil {
				return fmt.Errorf("failed to seed snapshot for %s: %w", r.ID, err)
			}
			snapshotID++
		}

		for d := 0; d < history; d++ {
			sessions := rng.Intn(40)
			_, err := db.conn.ExecContext(ctx, `
				INSERT INTO room_analytics (room_id, date, total_participants, unique_participants,
					total_sessions, avg_session_duration_seconds, peak_concurrent_users)
				VALUES ($1, CAST($2 AS DATE), $3, $4, $5, $6, $7)`,
				r.ID, now.AddDate(0, 0, -d), sessions+rng.Intn(10), sessions/2, sessions,
				float64(300+rng.Intn(3000)), rng.Intn(9))
			if err != nil {
				return fmt.Errorf("failed to seed rollup for %s: %w", r.ID, err)
			}
		}
	}
	return nil
}

// seedActivity writes a handful of activity entries per user.
func (db *DB) seedActivity(ctx context.Context, rng *rand.Rand, users int, now time.Time) error {
	types := []string{"room_join", "room_leave", "profile_update", "follow"}
	logID := int64(1)
	for u := 1; u <= users; u++ {
		for i := 0; i < 5; i++ {
			typ := types[rng.Intn(len(types))]
			data, err := json.Marshal(map[string]interface{}{"source": "seed", "sequence": i})
			if err != nil {
				return fmt.Errorf("failed to encode activity: %w", err)
			}
			_, err = db.conn.ExecContext(ctx, `
				INSERT INTO user_activity_log (log_id, user_id, activity_type, activity_data, activity_time)
				VALUES ($1, $2, $3, $4, $5)`,
				logID, fmt.Sprintf("u%03d", u), typ, string(data), now.Add(-time.Duration(rng.Intn(72))*time.Hour))
			if err != nil {
				return fmt.Errorf("failed to seed activity for u%03d: %w", u, err)
			}
			logID++
		}
	}
	return nil
}
