// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/roomscope/internal/cache"
	"github.com/tomtom215/roomscope/internal/config"
	"github.com/tomtom215/roomscope/internal/eventprocessor"
	"github.com/tomtom215/roomscope/internal/logging"
	"github.com/tomtom215/roomscope/internal/metrics"
	"github.com/tomtom215/roomscope/internal/models"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_users.go: user search, profile, history, rooms, shared rooms, views
//   - handlers_rooms.go: room detail, roster, timeline, snapshots, discovery
//   - handlers_stats.go: global stats and leaderboards (cached)
//   - handlers_health.go: liveness and readiness checks
type Handler struct {
	store     Store
	views     ViewSubmitter
	cache     *cache.Cache
	api       config.APIConfig
	startTime time.Time
	version   string
	now       func() time.Time
}

// NewHandler creates a handler. views may be nil, in which case view
// recording is skipped. A CacheTTL of zero disables response caching.
//
//	h := api.NewHandler(db, pipeline.Recorder(), cfg.API, version)
//	srv := &http.Server{Handler: api.NewRouter(h, cfg).Setup()}
func NewHandler(store Store, views ViewSubmitter, apiCfg config.APIConfig, version string) *Handler {
	h := &Handler{
		store:     store,
		views:     views,
		api:       apiCfg,
		startTime: time.Now(),
		version:   version,
		now:       time.Now,
	}
	if apiCfg.CacheTTL > 0 {
		h.cache = cache.New(apiCfg.CacheTTL, 2*apiCfg.CacheTTL)
	}
	return h
}

// Close releases the response cache.
func (h *Handler) Close() {
	if h.cache != nil {
		h.cache.Close()
	}
}

// cached serves key from the response cache, calling load on a miss.
// Errors are never cached.
func cached[T any](h *Handler, endpoint string, params interface{}, load func() (T, error)) (T, error) {
	if h.cache == nil {
		return load()
	}

	key := cache.GenerateKey(endpoint, params)
	v, hit, err := h.cache.GetOrLoad(key, func() (interface{}, error) {
		return load()
	})
	metrics.RecordCacheLookup(endpoint, hit)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// recordView submits a view of userID. Failures are logged and never
// reach the caller.
func (h *Handler) recordView(r *http.Request, userID string) {
	if h.views == nil {
		return
	}
	view := models.NewProfileView("", userID, clientIP(r), r.UserAgent(), h.now())

	// Keep request values but not cancellation; a client that disconnects
	// must not abort the publish.
	ctx := context.WithoutCancel(r.Context())
	if err := h.views.Submit(ctx, view); err != nil {
		logger := logging.Ctx(r.Context())
		ev := logger.Warn()
		// Shutdown and per-viewer throttling are expected refusals.
		if eventprocessor.IsDropped(err) {
			ev = logger.Debug()
		}
		ev.Err(err).
			Str("user_id", sanitizeLogValue(userID)).
			Msg("profile view not recorded")
	}
}

// clientIP returns the host part of RemoteAddr, which RealIP has already
// replaced with the forwarded address when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
