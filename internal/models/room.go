// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package models

import (
	"database/sql"
	"time"
)

// Room is a voice/chat room with its occupancy flags.
type Room struct {
	RoomID                  string     `json:"room_id"`
	Language                string     `json:"language"`
	SecondLanguage          string     `json:"second_language"`
	SkillLevel              string     `json:"skill_level"`
	Topic                   string     `json:"topic"`
	MaxCapacity             int64      `json:"max_capacity"`
	IsLocked                bool       `json:"is_locked"`
	AllowsUnlimitedAudience bool       `json:"allows_unlimited_audience"`
	MicAllowed              bool       `json:"mic_allowed"`
	IsActive                bool       `json:"is_active"`
	IsFull                  bool       `json:"is_full"`
	IsEmpty                 bool       `json:"is_empty"`
	CurrentUsersCount       int64      `json:"current_users_count"`
	CreatorUserID           string     `json:"creator_user_id"`
	CreatorName             string     `json:"creator_name"`
	FirstSeen               *time.Time `json:"first_seen"`
	LastActivity            *time.Time `json:"last_activity"`
}

// RoomRow holds the nullable columns of a rooms row as scanned.
type RoomRow struct {
	RoomID                  string
	Language                sql.NullString
	SecondLanguage          sql.NullString
	SkillLevel              sql.NullString
	Topic                   sql.NullString
	MaxCapacity             sql.NullInt64
	IsLocked                sql.NullBool
	AllowsUnlimitedAudience sql.NullBool
	MicAllowed              sql.NullBool
	IsActive                sql.NullBool
	CurrentUsersCount       sql.NullInt64
	CreatorUserID           sql.NullString
	CreatorName             sql.NullString
	FirstSeen               sql.NullTime
	LastActivity            sql.NullTime
}

// RoomColumns is the select list matching RoomRow.ScanTargets, for a rooms
// table aliased as r.
const RoomColumns = `r.room_id, r.language, r.second_language, r.skill_level, r.topic,
	r.max_capacity, r.is_locked, r.allows_unlimited_audience, r.mic_allowed, r.is_active,
	r.current_users_count, r.creator_user_id, r.creator_name, r.first_seen, r.last_activity`

// ScanTargets returns pointers in RoomColumns order.
func (r *RoomRow) ScanTargets() []interface{} {
	return []interface{}{
		&r.RoomID, &r.Language, &r.SecondLanguage, &r.SkillLevel, &r.Topic,
		&r.MaxCapacity, &r.IsLocked, &r.AllowsUnlimitedAudience, &r.MicAllowed, &r.IsActive,
		&r.CurrentUsersCount, &r.CreatorUserID, &r.CreatorName, &r.FirstSeen, &r.LastActivity,
	}
}

// Shape coalesces the row and derives the occupancy flags.
func (r *RoomRow) Shape() Room {
	room := Room{
		RoomID:                  r.RoomID,
		Language:                StringOrEmpty(r.Language),
		SecondLanguage:          StringOrEmpty(r.SecondLanguage),
		SkillLevel:              StringOrEmpty(r.SkillLevel),
		Topic:                   StringOrEmpty(r.Topic),
		MaxCapacity:             Int64Or0(r.MaxCapacity),
		IsLocked:                BoolOrFalse(r.IsLocked),
		AllowsUnlimitedAudience: BoolOrFalse(r.AllowsUnlimitedAudience),
		MicAllowed:              BoolOrFalse(r.MicAllowed),
		IsActive:                BoolOrFalse(r.IsActive),
		CurrentUsersCount:       Int64Or0(r.CurrentUsersCount),
		CreatorUserID:           StringOrEmpty(r.CreatorUserID),
		CreatorName:             StringOrEmpty(r.CreatorName),
		FirstSeen:               TimePtr(r.FirstSeen),
		LastActivity:            TimePtr(r.LastActivity),
	}
	room.DeriveOccupancy()
	return room
}

// DeriveOccupancy sets IsFull and IsEmpty from the counters. A room with
// no capacity limit is never full.
func (r *Room) DeriveOccupancy() {
	r.IsFull = r.MaxCapacity > 0 && r.CurrentUsersCount >= r.MaxCapacity
	r.IsEmpty = r.CurrentUsersCount == 0
}

// RoomStatistics is computed from the room's sessions and rollups.
type RoomStatistics struct {
	TotalSessions        int64   `json:"total_sessions"`
	UniqueUsers          int64   `json:"unique_users"`
	TotalTimeSeconds     int64   `json:"total_time_seconds"`
	AvgSessionSeconds    float64 `json:"avg_session_seconds"`
	CurrentlyActiveUsers int64   `json:"currently_active_users"`
	PeakConcurrentUsers  int64   `json:"peak_concurrent_users"`
	IsCurrentlyActive    bool    `json:"is_currently_active"`
}

// Finalize sets the flags derived from the counters.
func (s *RoomStatistics) Finalize() {
	s.IsCurrentlyActive = s.CurrentlyActiveUsers > 0
}

// RoomDetail is a room with its statistics block.
type RoomDetail struct {
	Room
	Statistics RoomStatistics `json:"statistics"`
}

// Participant is a roster entry. Live rosters fill the current session
// fields; historical rosters fill the aggregate fields.
type Participant struct {
	UserID               string     `json:"user_id"`
	Username             string     `json:"username"`
	FollowersCount       int64      `json:"followers_count"`
	IsCurrentlyActive    bool       `json:"is_currently_active"`
	JoinedAt             *time.Time `json:"joined_at,omitempty"`
	UserPosition         *int64     `json:"user_position,omitempty"`
	MicOn                *bool      `json:"mic_on,omitempty"`
	SessionCount         int64      `json:"session_count"`
	TotalDurationSeconds int64      `json:"total_duration_seconds"`
	FirstJoinedAt        *time.Time `json:"first_joined_at,omitempty"`
	LastJoinedAt         *time.Time `json:"last_joined_at,omitempty"`
}

// RoomSnapshot is a point-in-time capture of room occupancy.
type RoomSnapshot struct {
	SnapshotID        int64       `json:"snapshot_id"`
	RoomID            string      `json:"room_id"`
	SnapshotTime      time.Time   `json:"snapshot_time"`
	ParticipantsCount int64       `json:"participants_count"`
	Participants      interface{} `json:"participants"`
	IsActive          bool        `json:"is_active"`
}

// RoomAnalytics is one precomputed daily rollup.
type RoomAnalytics struct {
	RoomID                    string  `json:"room_id"`
	Date                      string  `json:"date"`
	TotalParticipants         int64   `json:"total_participants"`
	UniqueParticipants        int64   `json:"unique_participants"`
	TotalSessions             int64   `json:"total_sessions"`
	AvgSessionDurationSeconds float64 `json:"avg_session_duration_seconds"`
	PeakConcurrentUsers       int64   `json:"peak_concurrent_users"`
}

// TrendingRoom is a room ranked by recent activity.
type TrendingRoom struct {
	Room
	RecentSessions    int64 `json:"recent_sessions"`
	RecentUniqueUsers int64 `json:"recent_unique_users"`
}

// SharedRoom describes co-presence of two users in one room.
type SharedRoom struct {
	RoomID           string    `json:"room_id"`
	Topic            string    `json:"topic"`
	Language         string    `json:"language"`
	SkillLevel       string    `json:"skill_level"`
	OverlapCount     int64     `json:"overlap_count"`
	FirstOverlapTime time.Time `json:"first_overlap_time"`
	LastOverlapTime  time.Time `json:"last_overlap_time"`
	User1Sessions    int64     `json:"user1_sessions"`
	User2Sessions    int64     `json:"user2_sessions"`
}

// SharedRoomsResult is the co-presence analysis of two users.
type SharedRoomsResult struct {
	User1            UserRef      `json:"user1"`
	User2            UserRef      `json:"user2"`
	SharedRooms      []SharedRoom `json:"shared_rooms"`
	TotalSharedRooms int          `json:"total_shared_rooms"`
}
