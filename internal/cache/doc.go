// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

/*
Package cache provides a thread-safe in-memory TTL cache for API responses.

The API caches the global statistics, the language and skill breakdowns and
both leaderboards. Every entry shares the configured TTL (CACHE_TTL, 30s by
default); a zero TTL turns Set into a no-op so nothing is ever cached.

Expired entries are dropped lazily on Get and by a periodic sweep that runs
until Close.

	c := cache.New(cfg.API.CacheTTL, time.Minute)
	defer c.Close()

	key := cache.GenerateKey("leaderboard:most-active", params)
	v, hit, err := c.GetOrLoad(key, func() (interface{}, error) {
	    return db.MostActive(ctx, params.Days, params.Limit)
	})
*/
package cache
