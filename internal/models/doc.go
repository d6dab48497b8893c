// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

/*
Package models defines the response shapes served by Roomscope and the
helpers that turn raw rows into them.

Shaping rules applied across the API:

  - Numeric aggregates are read through sql.Null* and coalesced to 0, so
    counters never render as null.
  - Serialized JSON columns (participants_json, activity_data) are parsed
    into native values and exposed under a new name; the raw text is never
    returned.
  - List endpoints that paginate return Page[T]:
    {"items": [...], "pagination": {"total", "limit", "offset", "has_more"}}.
  - Derived flags (Room.IsFull, Room.IsEmpty, the statistics blocks) are
    computed in Go after the rows are read.
*/
package models
