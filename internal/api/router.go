// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/roomscope/internal/middleware"
)

// slowRequestThreshold promotes access log entries to warn.
const slowRequestThreshold = time.Second

// compressionLevel is the gzip level used for JSON responses.
const compressionLevel = 5

// Router wires the handler into a chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses the default middleware config.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// Setup builds the route tree.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Applied to every route, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.AccessLog(slowRequestThreshold))
	r.Use(chimiddleware.Compress(compressionLevel, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, ErrorResponse{Error: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})

	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Route("/users", func(r chi.Router) {
			r.Get("/search", handle(h.SearchUsers))
			r.Route("/{userId}", func(r chi.Router) {
				r.Get("/", handle(h.GetUser))
				r.Get("/history", handle(h.GetUserHistory))
				r.Get("/rooms", handle(h.GetUserRooms))
				r.Get("/rooms/{roomId}/sessions", handle(h.GetUserRoomSessions))
				r.Get("/shared/{otherId}", handle(h.GetSharedRooms))
				r.Post("/view", handle(h.RecordView))
			})
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/trending", handle(h.TrendingRooms))
			r.Get("/active", handle(h.ActiveRooms))
			r.Get("/search", handle(h.SearchRooms))
			r.Route("/{roomId}", func(r chi.Router) {
				r.Get("/", handle(h.GetRoom))
				r.Get("/participants", handle(h.GetRoomParticipants))
				r.Get("/timeline", handle(h.GetRoomTimeline))
				r.Get("/snapshots", handle(h.GetRoomSnapshots))
				r.Get("/analytics", handle(h.GetRoomAnalytics))
			})
		})

		r.Route("/leaderboard", func(r chi.Router) {
			r.Get("/most-stalked", handle(h.MostStalked))
			r.Get("/most-active", handle(h.MostActive))
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/", handle(h.Stats))
			r.Get("/languages", handle(h.LanguageStats))
			r.Get("/skills", handle(h.SkillStats))
		})
	})

	return r
}
