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

// SearchUsers handles GET /users/search. Terms shorter than two characters
// return an empty list without querying storage.
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	req := userSearchRequest{
		Q:     q.str("q"),
		Limit: q.intOr("limit", h.api.DefaultPageSize),
	}
	q.atMost("limit", req.Limit, h.api.MaxPageSize)
	if err := q.validate(&req); err != nil {
		return err
	}

	term, ok := searchTerm(req.Q)
	if !ok {
		respondOK(w, []models.User{})
		return nil
	}

	users, err := h.store.SearchUsers(r.Context(), term, req.Limit)
	if err != nil {
		return err
	}
	respondOK(w, nonNil(users))
	return nil
}

// GetUser handles GET /users/{userId}. With record_view=true a profile view
// is queued after the profile is loaded; the response does not depend on it.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	recordView := q.boolOr("record_view", false)
	if err := q.validate(&struct{}{}); err != nil {
		return err
	}

	profile, err := h.store.GetUserProfile(r.Context(), pathParam(r, "userId"))
	if err != nil {
		return err
	}
	if recordView {
		h.recordView(r, profile.UserID)
	}
	respondOK(w, profile)
	return nil
}

// GetUserHistory handles GET /users/{userId}/history.
func (h *Handler) GetUserHistory(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	req := historyRequest{
		Type:  q.str("type"),
		Limit: q.intOr("limit", defaultHistoryLimit),
	}
	if err := q.validate(&req); err != nil {
		return err
	}

	history, err := h.store.GetUserHistory(r.Context(), pathParam(r, "userId"), req.Type, req.Limit)
	if err != nil {
		return err
	}
	respondOK(w, nonNil(history))
	return nil
}

// GetUserRooms handles GET /users/{userId}/rooms.
func (h *Handler) GetUserRooms(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	req := userRoomsRequest{
		Language:   q.str("language"),
		SkillLevel: q.str("skill_level"),
		Limit:      q.intOr("limit", h.api.DefaultPageSize),
		Offset:     q.intOr("offset", 0),
	}
	q.atMost("limit", req.Limit, h.api.MaxPageSize)
	if err := q.validate(&req); err != nil {
		return err
	}

	page, err := h.store.GetUserRooms(r.Context(), pathParam(r, "userId"), database.UserRoomsFilter{
		Language:   req.Language,
		SkillLevel: req.SkillLevel,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return err
	}
	respondOK(w, page)
	return nil
}

// GetUserRoomSessions handles GET /users/{userId}/rooms/{roomId}/sessions.
func (h *Handler) GetUserRoomSessions(w http.ResponseWriter, r *http.Request) error {
	sessions, err := h.store.GetUserRoomSessions(r.Context(), pathParam(r, "userId"), pathParam(r, "roomId"))
	if err != nil {
		return err
	}
	respondOK(w, nonNil(sessions))
	return nil
}

// GetSharedRooms handles GET /users/{userId}/shared/{otherId}. Storage
// rejects comparing a user with itself and raises min_overlaps to 1.
func (h *Handler) GetSharedRooms(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	req := sharedRoomsRequest{MinOverlaps: q.intOr("min_overlaps", defaultMinOverlaps)}
	if err := q.validate(&req); err != nil {
		return err
	}

	result, err := h.store.GetSharedRooms(r.Context(), pathParam(r, "userId"), pathParam(r, "otherId"), req.MinOverlaps)
	if err != nil {
		return err
	}
	respondOK(w, result)
	return nil
}

// RecordView handles POST /users/{userId}/view. The user must exist; the
// insert itself happens after the response is sent.
func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) error {
	user, err := h.store.ResolveUser(r.Context(), pathParam(r, "userId"))
	if err != nil {
		return err
	}
	h.recordView(r, user.UserID)
	respondJSON(w, http.StatusAccepted, QueuedResponse{Success: true, Queued: true})
	return nil
}

// nonNil makes an absent result render as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
