// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

/*
Package middleware provides chi-compatible HTTP middleware.

  - RequestID: X-Request-ID propagation and logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by route pattern
  - AccessLog: structured per-request log with slow request warnings

Compression, CORS and rate limiting come from chi/middleware, go-chi/cors
and go-chi/httprate. The api package assembles the stack:

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(chimw.Compress(5, "application/json"))
*/
package middleware
