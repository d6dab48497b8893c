// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package api

import (
	"context"

	"github.com/tomtom215/roomscope/internal/database"
	"github.com/tomtom215/roomscope/internal/models"
)

// Store is the read surface the handlers need. *database.DB implements it;
// tests substitute a fake.
type Store interface {
	Ping(ctx context.Context) error
	Driver() string

	ResolveUser(ctx context.Context, idOrName string) (models.User, error)
	SearchUsers(ctx context.Context, q string, limit int) ([]models.User, error)
	GetUserProfile(ctx context.Context, idOrName string) (models.UserProfile, error)
	GetUserHistory(ctx context.Context, idOrName, activityType string, limit int) ([]models.ActivityLog, error)
	GetUserRooms(ctx context.Context, idOrName string, f database.UserRoomsFilter) (models.Page[models.UserRoomHistory], error)
	GetUserRoomSessions(ctx context.Context, idOrName, roomID string) ([]models.Session, error)
	GetSharedRooms(ctx context.Context, user1, user2 string, minOverlaps int) (models.SharedRoomsResult, error)

	GetRoom(ctx context.Context, roomID string) (models.RoomDetail, error)
	GetRoomParticipants(ctx context.Context, roomID string, currentOnly bool) ([]models.Participant, error)
	GetRoomTimeline(ctx context.Context, roomID string, f database.TimelineFilter) (models.Page[models.Session], error)
	GetRoomSnapshots(ctx context.Context, roomID string, f database.SnapshotFilter) ([]models.RoomSnapshot, error)
	GetRoomAnalytics(ctx context.Context, roomID string, days int) ([]models.RoomAnalytics, error)
	TrendingRooms(ctx context.Context, hours, limit int) ([]models.TrendingRoom, error)
	ActiveRooms(ctx context.Context, f database.RoomFilter) ([]models.Room, error)
	SearchRooms(ctx context.Context, q string, f database.RoomFilter) ([]models.Room, error)

	MostStalked(ctx context.Context, days, limit int) ([]models.StalkedEntry, error)
	MostActive(ctx context.Context, days, limit int) ([]models.ActiveEntry, error)
	GlobalStats(ctx context.Context) (models.GlobalStats, error)
	LanguageStats(ctx context.Context) ([]models.LanguageStats, error)
	SkillStats(ctx context.Context) ([]models.SkillStats, error)
}

// ViewSubmitter queues a profile view without waiting for it to be stored.
type ViewSubmitter interface {
	Submit(ctx context.Context, view models.ProfileView) error
}

var _ Store = (*database.DB)(nil)
