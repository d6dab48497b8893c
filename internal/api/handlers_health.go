// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/roomscope/internal/logging"
	"github.com/tomtom215/roomscope/internal/models"
)

// healthPingTimeout bounds the storage ping behind /health and /health/ready.
const healthPingTimeout = 2 * time.Second

// Health handles GET /health. It reports storage reachability and returns
// 503 when the store does not answer a ping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:        "healthy",
		Database:      "connected",
		Driver:        h.store.Driver(),
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	code := http.StatusOK
	if err := h.ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("health check: database unreachable")
		status.Status = "degraded"
		status.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, status)
}

// HealthLive handles GET /health/live. It returns 200 while the process is
// serving, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /health/ready. It returns 503 until the store
// answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"ready":    false,
			"database": "unreachable",
		})
		return
	}
	respondOK(w, map[string]interface{}{
		"ready":    true,
		"database": "connected",
	})
}

func (h *Handler) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return h.store.Ping(ctx)
}
