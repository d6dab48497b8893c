// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package query

import (
	"fmt"
	"strings"
)

// Statement assembles a full SQL statement from fragments written with "?"
// markers. Fragments and their arguments are kept in one ordered list and
// numbered once, in Build, so parameters bound before the WHERE clause
// (ranking expressions, CTE inputs) and pagination after it never collide.
//
//	wb := query.New().Eq("language", lang)
//	sql, args := query.NewStatement("SELECT room_id FROM rooms").
//	    Where(wb).
//	    Append("ORDER BY last_activity DESC").
//	    Paginate(limit, offset).
//	    Build()
type Statement struct {
	parts []term
}

// NewStatement starts a statement with an initial fragment.
func NewStatement(sql string, args ...interface{}) *Statement {
	return (&Statement{}).Append(sql, args...)
}

// Append adds a fragment. The marker count must match len(args).
func (s *Statement) Append(sql string, args ...interface{}) *Statement {
	if n := CountPlaceholders(sql); n != len(args) {
		panic(fmt.Sprintf("query: fragment %q has %d placeholders but %d args", sql, n, len(args)))
	}
	s.parts = append(s.parts, term{clause: sql, args: args})
	return s
}

// Where appends "WHERE <predicate>" from wb. An empty builder adds nothing.
func (s *Statement) Where(wb *WhereBuilder) *Statement {
	if wb == nil || wb.IsEmpty() {
		return s
	}
	clause, args := wb.raw()
	return s.Append("WHERE "+clause, args...)
}

// And appends "AND <predicate>" from wb, for statements whose WHERE clause
// already has a fixed leading condition.
func (s *Statement) And(wb *WhereBuilder) *Statement {
	if wb == nil || wb.IsEmpty() {
		return s
	}
	clause, args := wb.raw()
	return s.Append("AND "+clause, args...)
}

// Paginate appends LIMIT and OFFSET. It must be the last fragment.
func (s *Statement) Paginate(limit, offset int) *Statement {
	return s.Append("LIMIT ? OFFSET ?", limit, offset)
}

// Limit appends LIMIT only.
func (s *Statement) Limit(limit int) *Statement {
	return s.Append("LIMIT ?", limit)
}

// Build joins fragments with newlines and numbers placeholders from $1.
func (s *Statement) Build() (string, []interface{}) {
	sqls := make([]string, len(s.parts))
	args := make([]interface{}, 0)
	for i, p := range s.parts {
		sqls[i] = p.clause
		args = append(args, p.args...)
	}
	return Renumber(strings.Join(sqls, "\n"), 1), args
}
