// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package models

import (
	"database/sql"
	"time"
)

// User is a tracked account with its profile and activity counters.
type User struct {
	UserID               string     `json:"user_id"`
	Username             string     `json:"username"`
	FollowersCount       int64      `json:"followers_count"`
	FollowingCount       int64      `json:"following_count"`
	FriendsCount         int64      `json:"friends_count"`
	SupporterLevel       int64      `json:"supporter_level"`
	VerificationStatus   string     `json:"verification_status"`
	ProfileViewsCount    int64      `json:"profile_views_count"`
	TotalSessions        int64      `json:"total_sessions"`
	TotalDurationSeconds int64      `json:"total_duration_seconds"`
	FirstSeen            *time.Time `json:"first_seen"`
	LastSeen             *time.Time `json:"last_seen"`
}

// UserRow holds the nullable columns of a users row as scanned.
type UserRow struct {
	UserID               string
	Username             sql.NullString
	FollowersCount       sql.NullInt64
	FollowingCount       sql.NullInt64
	FriendsCount         sql.NullInt64
	SupporterLevel       sql.NullInt64
	VerificationStatus   sql.NullString
	ProfileViewsCount    sql.NullInt64
	TotalSessions        sql.NullInt64
	TotalDurationSeconds sql.NullInt64
	FirstSeen            sql.NullTime
	LastSeen             sql.NullTime
}

// ScanTargets returns pointers in UserColumns order.
func (r *UserRow) ScanTargets() []interface{} {
	return []interface{}{
		&r.UserID, &r.Username, &r.FollowersCount, &r.FollowingCount, &r.FriendsCount,
		&r.SupporterLevel, &r.VerificationStatus, &r.ProfileViewsCount, &r.TotalSessions,
		&r.TotalDurationSeconds, &r.FirstSeen, &r.LastSeen,
	}
}

// UserColumns is the select list matching UserRow.ScanTargets, for a users
// table aliased as u.
const UserColumns = `u.user_id, u.username, u.followers_count, u.following_count, u.friends_count,
	u.supporter_level, u.verification_status, u.profile_views_count, u.total_sessions,
	u.total_duration_seconds, u.first_seen, u.last_seen`

// Shape coalesces the row into a User.
func (r *UserRow) Shape() User {
	return User{
		UserID:               r.UserID,
		Username:             StringOrEmpty(r.Username),
		FollowersCount:       Int64Or0(r.FollowersCount),
		FollowingCount:       Int64Or0(r.FollowingCount),
		FriendsCount:         Int64Or0(r.FriendsCount),
		SupporterLevel:       Int64Or0(r.SupporterLevel),
		VerificationStatus:   StringOrEmpty(r.VerificationStatus),
		ProfileViewsCount:    Int64Or0(r.ProfileViewsCount),
		TotalSessions:        Int64Or0(r.TotalSessions),
		TotalDurationSeconds: Int64Or0(r.TotalDurationSeconds),
		FirstSeen:            TimePtr(r.FirstSeen),
		LastSeen:             TimePtr(r.LastSeen),
	}
}

// UserStatistics is computed from the user's sessions.
type UserStatistics struct {
	TotalRoomsJoined  int64      `json:"total_rooms_joined"`
	TotalSessions     int64      `json:"total_sessions"`
	TotalTimeSeconds  int64      `json:"total_time_seconds"`
	AvgSessionSeconds float64    `json:"avg_session_seconds"`
	LastSessionAt     *time.Time `json:"last_session_at"`
	IsCurrentlyActive bool       `json:"is_currently_active"`
	CurrentRoomID     *string    `json:"current_room_id"`
	FavoriteLanguage  *string    `json:"favorite_language"`
}

// UserProfile is a user with its statistics block.
type UserProfile struct {
	User
	Statistics UserStatistics `json:"statistics"`
}

// UserRef identifies a user in composite responses.
type UserRef struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Ref returns the identifying subset of u.
func (u User) Ref() UserRef {
	return UserRef{UserID: u.UserID, Username: u.Username}
}

// ActivityLog is one entry of a user's activity history.
type ActivityLog struct {
	LogID        int64       `json:"log_id"`
	UserID       string      `json:"user_id"`
	ActivityType string      `json:"activity_type"`
	ActivityData interface{} `json:"activity_data"`
	ActivityTime time.Time   `json:"activity_time"`
}

// UserRoomHistory summarises one user's presence in one room.
type UserRoomHistory struct {
	RoomID               string     `json:"room_id"`
	Topic                string     `json:"topic"`
	Language             string     `json:"language"`
	SkillLevel           string     `json:"skill_level"`
	RoomIsActive         bool       `json:"room_is_active"`
	SessionCount         int64      `json:"session_count"`
	TotalDurationSeconds int64      `json:"total_duration_seconds"`
	FirstJoinedAt        *time.Time `json:"first_joined_at"`
	LastJoinedAt         *time.Time `json:"last_joined_at"`
	IsCurrentlyInRoom    bool       `json:"is_currently_in_room"`
}

// ProfileView is a single recorded view of a user's profile.
type ProfileView struct {
	ViewID          string    `json:"view_id"`
	ViewedUserID    string    `json:"viewed_user_id"`
	ViewerIP        string    `json:"viewer_ip"`
	ViewerUserAgent string    `json:"viewer_user_agent"`
	ViewedAt        time.Time `json:"viewed_at"`
}

// Column limits for profile view viewer fields.
const (
	MaxViewerIPLength        = 50
	MaxViewerUserAgentLength = 255
)

// NewProfileView builds a view with viewer fields truncated to their
// column limits.
func NewProfileView(viewID, viewedUserID, ip, userAgent string, at time.Time) ProfileView {
	return ProfileView{
		ViewID:          viewID,
		ViewedUserID:    viewedUserID,
		ViewerIP:        Truncate(ip, MaxViewerIPLength),
		ViewerUserAgent: Truncate(userAgent, MaxViewerUserAgentLength),
		ViewedAt:        at.UTC(),
	}
}
