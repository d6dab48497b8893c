// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

/*
Package api provides the HTTP layer for Roomscope.

Handlers read from a Store (implemented by *database.DB) and return plain
JSON: objects for single entities, arrays for lists and Page for paginated
lists. Profile views are handed to a ViewSubmitter and recorded after the
response is sent.

Routes:

	GET  /users/search                      ranked user search
	GET  /users/{userId}                    profile and statistics (?record_view=true)
	GET  /users/{userId}/history            activity log
	GET  /users/{userId}/rooms              paginated room history
	GET  /users/{userId}/rooms/{roomId}/sessions
	GET  /users/{userId}/shared/{otherId}   co-presence with another user
	POST /users/{userId}/view               queue a profile view (202)
	GET  /rooms/{roomId}                    room and statistics
	GET  /rooms/{roomId}/participants
	GET  /rooms/{roomId}/timeline
	GET  /rooms/{roomId}/snapshots
	GET  /rooms/{roomId}/analytics
	GET  /rooms/trending | /rooms/active | /rooms/search
	GET  /leaderboard/most-stalked | /leaderboard/most-active
	GET  /stats | /stats/languages | /stats/skills
	GET  /health | /health/live | /health/ready
	GET  /metrics

Error handling:

Handlers have the apiHandler signature and return errors instead of writing
them. handle passes any error to respondErr, which classifies it with
database.KindOf:

	not found  -> 404 {"error": "user \"u42\" not found"}
	validation -> 400 {"error": "invalid request", "details": [{field, tag, message}]}
	anything   -> 500 {"error": "internal server error", "details": "..."}

Storage failures are logged once, in respondErr, with the request id.

Middleware, outermost first: request id, RealIP, Recoverer, CORS, access
log and gzip for every route; then per-IP rate limiting, security headers
and Prometheus metrics on the API group.

Caching:

/stats* and the leaderboards are cached for API.CacheTTL. Errors are not
cached. A zero TTL disables the cache.
*/
package api
