// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package models

import (
	"database/sql"
	"time"
)

// Session event types.
const (
	EventJoin  = "join"
	EventLeave = "leave"
)

// EventTypes lists the accepted session event types.
var EventTypes = []string{EventJoin, EventLeave}

// Session is one join/leave cycle of a user in a room. LeftAt is nil while
// the session is active.
type Session struct {
	SessionID         string     `json:"session_id"`
	UserID            string     `json:"user_id"`
	Username          string     `json:"username,omitempty"`
	RoomID            string     `json:"room_id"`
	JoinedAt          *time.Time `json:"joined_at"`
	LeftAt            *time.Time `json:"left_at"`
	DurationSeconds   int64      `json:"duration_seconds"`
	IsCurrentlyActive bool       `json:"is_currently_active"`
	EventType         string     `json:"event_type"`
	UserPosition      *int64     `json:"user_position"`
	MicWasOn          bool       `json:"mic_was_on"`
}

// SessionRow holds a sessions row joined with the owning username.
type SessionRow struct {
	SessionID         string
	UserID            string
	Username          sql.NullString
	RoomID            string
	JoinedAt          sql.NullTime
	LeftAt            sql.NullTime
	DurationSeconds   sql.NullInt64
	IsCurrentlyActive sql.NullBool
	EventType         sql.NullString
	UserPosition      sql.NullInt64
	MicWasOn          sql.NullBool
}

// SessionColumns matches SessionRow.ScanTargets for sessions aliased as s
// left-joined to users aliased as u.
const SessionColumns = `s.session_id, s.user_id, u.username, s.room_id, s.joined_at, s.left_at,
	s.duration_seconds, s.is_currently_active, s.event_type, s.user_position, s.mic_was_on`

// ScanTargets returns pointers in SessionColumns order.
func (r *SessionRow) ScanTargets() []interface{} {
	return []interface{}{
		&r.SessionID, &r.UserID, &r.Username, &r.RoomID, &r.JoinedAt, &r.LeftAt,
		&r.DurationSeconds, &r.IsCurrentlyActive, &r.EventType, &r.UserPosition, &r.MicWasOn,
	}
}

// Shape coalesces the row into a Session. An active session never
// reports a left_at.
func (r *SessionRow) Shape() Session {
	s := Session{
		SessionID:         r.SessionID,
		UserID:            r.UserID,
		Username:          StringOrEmpty(r.Username),
		RoomID:            r.RoomID,
		JoinedAt:          TimePtr(r.JoinedAt),
		LeftAt:            TimePtr(r.LeftAt),
		DurationSeconds:   Int64Or0(r.DurationSeconds),
		IsCurrentlyActive: BoolOrFalse(r.IsCurrentlyActive),
		EventType:         StringOrEmpty(r.EventType),
		MicWasOn:          BoolOrFalse(r.MicWasOn),
	}
	if r.UserPosition.Valid {
		p := r.UserPosition.Int64
		s.UserPosition = &p
	}
	if s.IsCurrentlyActive {
		s.LeftAt = nil
	}
	return s
}
