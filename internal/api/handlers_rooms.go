// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package api

import (
	"net/http"

	"github.com/tomtom215/roomscope/internal/database"
	"github.com/tomtom215/roomscope/internal/models"
)

// GetRoom handles GET /rooms/{roomId}.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) error {
	room, err := h.store.GetRoom(r.Context(), pathParam(r, "roomId"))
	if err != nil {
		return err
	}
	respondOK(w, room)
	return nil
}

// GetRoomParticipants handles GET /rooms/{roomId}/participants.
// current_only defaults to true.
func (h *Handler) GetRoomParticipants(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	currentOnly := q.boolOr("current_only", true)
	if err := q.validate(&struct{}{}); err != nil {
		return err
	}

	participants, err := h.store.GetRoomParticipants(r.Context(), pathParam(r, "roomId"), currentOnly)
	if err != nil {
		return err
	}
	respondOK(w, nonNil(participants))
	return nil
}

// GetRoomTimeline handles GET /rooms/{roomId}/timeline.
func (h *Handler) GetRoomTimeline(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	req := timelineRequest{
		EventType: q.str("event_type"),
		Limit:     q.intOr("limit", defaultTimelineLimit),
		Offset:    q.intOr("offset", 0),
	}
	if err := q.validate(&req); err != nil {
		return err
	}

	page, err := h.store.GetRoomTimeline(r.Context(), pathParam(r, "roomId"), database.TimelineFilter{
		EventType: req.EventType,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		return err
	}
	respondOK(w, page)
	return nil
}

// GetRoomSnapshots handles GET /rooms/{roomId}/snapshots. A date-only
// end_date includes the whole day.
func (h *Handler) GetRoomSnapshots(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	req := snapshotsRequest{
		StartDate: q.str("start_date"),
		EndDate:   q.str("end_date"),
		Limit:     q.intOr("limit", defaultSnapshotLimit),
	}
	if err := q.validate(&req); err != nil {
		return err
	}

	start, end := parseRange(req.StartDate, req.EndDate)
	snapshots, err := h.store.GetRoomSnapshots(r.Context(), pathParam(r, "roomId"), database.SnapshotFilter{
		Start: start,
		End:   end,
		Limit: req.Limit,
	})
	if err != nil {
		return err
	}
	respondOK(w, nonNil(snapshots))
	return nil
}

// GetRoomAnalytics handles GET /rooms/{roomId}/analytics.
func (h *Handler) GetRoomAnalytics(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	req := analyticsRequest{Days: q.intOr("days", defaultAnalyticsDays)}
	if err := q.validate(&req); err != nil {
		return err
	}

	rollups, err := h.store.GetRoomAnalytics(r.Context(), pathParam(r, "roomId"), req.Days)
	if err != nil {
		return err
	}
	respondOK(w, nonNil(rollups))
	return nil
}

// TrendingRooms handles GET /rooms/trending.
func (h *Handler) TrendingRooms(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	req := trendingRequest{
		Hours: q.intOr("hours", defaultTrendingHours),
		Limit: q.intOr("limit", defaultTrendingLimit),
	}
	if err := q.validate(&req); err != nil {
		return err
	}

	rooms, err := h.store.TrendingRooms(r.Context(), req.Hours, req.Limit)
	if err != nil {
		return err
	}
	respondOK(w, nonNil(rooms))
	return nil
}

// ActiveRooms handles GET /rooms/active.
func (h *Handler) ActiveRooms(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	req := activeRoomsRequest{
		Language:   q.str("language"),
		SkillLevel: q.str("skill_level"),
		Limit:      q.intOr("limit", defaultActiveLimit),
	}
	if err := q.validate(&req); err != nil {
		return err
	}

	rooms, err := h.store.ActiveRooms(r.Context(), database.RoomFilter{
		Language:   req.Language,
		SkillLevel: req.SkillLevel,
		Limit:      req.Limit,
	})
	if err != nil {
		return err
	}
	respondOK(w, nonNil(rooms))
	return nil
}

// SearchRooms handles GET /rooms/search. Terms shorter than two characters
// return an empty list without querying storage.
func (h *Handler) SearchRooms(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	req := roomSearchRequest{
		Q:          q.str("q"),
		Language:   q.str("language"),
		SkillLevel: q.str("skill_level"),
		Limit:      q.intOr("limit", h.api.DefaultPageSize),
	}
	q.atMost("limit", req.Limit, h.api.MaxPageSize)
	if err := q.validate(&req); err != nil {
		return err
	}

	term, ok := searchTerm(req.Q)
	if !ok {
		respondOK(w, []models.Room{})
		return nil
	}

	rooms, err := h.store.SearchRooms(r.Context(), term, database.RoomFilter{
		Language:   req.Language,
		SkillLevel: req.SkillLevel,
		Limit:      req.Limit,
	})
	if err != nil {
		return err
	}
	respondOK(w, nonNil(rooms))
	return nil
}
