// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

// Package metrics declares the Prometheus collectors for Roomscope.
//
// Collectors are registered on the default registry through promauto and
// exposed by the /metrics route. Label values are bounded: endpoints use chi
// route patterns and errors use their classified kind, never raw messages.
package metrics
