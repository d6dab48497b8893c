// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

// Package query builds parameterized SQL for the database package.
//
// WhereBuilder collects optional filter terms. Each term carries its own
// arguments, so a skipped filter never shifts the numbering of later ones.
// Statement strings fragments (including a WhereBuilder predicate) into a
// complete statement and numbers every "?" marker as $1..$N in one pass.
// Both Postgres (pgx) and DuckDB accept $N parameters.
//
//	wb := query.New()
//	wb.Where("s.room_id = ?", roomID)
//	if err := wb.EqIn("s.event_type", eventType, "join", "leave"); err != nil {
//	    return err
//	}
//	countSQL, countArgs := query.NewStatement("SELECT COUNT(*) FROM sessions s").Where(wb).Build()
//	pageSQL, pageArgs := query.NewStatement(selectSessions).Where(wb).
//	    Append("ORDER BY s.joined_at DESC").Paginate(limit, offset).Build()
package query
