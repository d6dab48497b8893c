// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package api

import (
	"net/http"

	"github.com/tomtom215/roomscope/internal/models"
)

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) error {
	stats, err := cached(h, "stats", nil, func() (models.GlobalStats, error) {
		return h.store.GlobalStats(r.Context())
	})
	if err != nil {
		return err
	}
	respondOK(w, stats)
	return nil
}

// LanguageStats handles GET /stats/languages.
func (h *Handler) LanguageStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := cached(h, "stats_languages", nil, func() ([]models.LanguageStats, error) {
		return h.store.LanguageStats(r.Context())
	})
	if err != nil {
		return err
	}
	respondOK(w, nonNil(stats))
	return nil
}

// SkillStats handles GET /stats/skills.
func (h *Handler) SkillStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := cached(h, "stats_skills", nil, func() ([]models.SkillStats, error) {
		return h.store.SkillStats(r.Context())
	})
	if err != nil {
		return err
	}
	respondOK(w, nonNil(stats))
	return nil
}

// MostStalked handles GET /leaderboard/most-stalked. days=0 counts every
// recorded view.
func (h *Handler) MostStalked(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	req := leaderboardRequest{
		Days:  q.intOr("days", 0),
		Limit: q.intOr("limit", defaultBoardLimit),
	}
	if err := q.validate(&req); err != nil {
		return err
	}

	entries, err := cached(h, "leaderboard_most_stalked", req, func() ([]models.StalkedEntry, error) {
		return h.store.MostStalked(r.Context(), req.Days, req.Limit)
	})
	if err != nil {
		return err
	}
	respondOK(w, nonNil(entries))
	return nil
}

// MostActive handles GET /leaderboard/most-active. days must be 1..365.
func (h *Handler) MostActive(w http.ResponseWriter, r *http.Request) error {
	q := newQueryReader(r)
	req := mostActiveRequest{
		Days:  q.intOr("days", defaultMostActiveDays),
		Limit: q.intOr("limit", defaultBoardLimit),
	}
	if err := q.validate(&req); err != nil {
		return err
	}

	entries, err := cached(h, "leaderboard_most_active", req, func() ([]models.ActiveEntry, error) {
		return h.store.MostActive(r.Context(), req.Days, req.Limit)
	})
	if err != nil {
		return err
	}
	respondOK(w, nonNil(entries))
	return nil
}
