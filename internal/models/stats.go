// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package models

import (
	"time"
)

// GlobalStats holds the service-wide counters.
type GlobalStats struct {
	TotalUsers        int64     `json:"total_users"`
	TotalRooms        int64     `json:"total_rooms"`
	ActiveRooms       int64     `json:"active_rooms"`
	TotalSessions     int64     `json:"total_sessions"`
	ActiveSessions    int64     `json:"active_sessions"`
	UsersOnline       int64     `json:"users_online"`
	Sessions24h       int64     `json:"sessions_24h"`
	TotalProfileViews int64     `json:"total_profile_views"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// LanguageStats aggregates rooms and sessions by room language.
type LanguageStats struct {
	Language      string `json:"language"`
	RoomCount     int64  `json:"room_count"`
	ActiveRooms   int64  `json:"active_rooms"`
	TotalSessions int64  `json:"total_sessions"`
	UniqueUsers   int64  `json:"unique_users"`
}

// SkillStats aggregates rooms and sessions by room skill level.
type SkillStats struct {
	SkillLevel    string `json:"skill_level"`
	RoomCount     int64  `json:"room_count"`
	ActiveRooms   int64  `json:"active_rooms"`
	TotalSessions int64  `json:"total_sessions"`
	UniqueUsers   int64  `json:"unique_users"`
}

// StalkedEntry ranks users by how often their profile was viewed.
type StalkedEntry struct {
	Rank           int    `json:"rank"`
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	FollowersCount int64  `json:"followers_count"`
	ViewCount      int64  `json:"view_count"`
}

// ActiveEntry ranks users by time spent in rooms.
type ActiveEntry struct {
	Rank                 int    `json:"rank"`
	UserID               string `json:"user_id"`
	Username             string `json:"username"`
	SessionCount         int64  `json:"session_count"`
	RoomsVisited         int64  `json:"rooms_visited"`
	TotalDurationSeconds int64  `json:"total_duration_seconds"`
}

// HealthStatus is the /health response body.
type HealthStatus struct {
	Status        string  `json:"status"`
	Database      string  `json:"database"`
	Driver        string  `json:"driver"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
