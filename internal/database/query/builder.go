// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package query

import (
	"fmt"
	"strings"
	"time"
)

// term is one predicate fragment together with the values bound to its
// placeholders. Keeping both in a single entry is what makes skipped
// filters unable to shift the numbering of the ones that follow.
type term struct {
	clause string
	args   []interface{}
}

// WhereBuilder constructs SQL WHERE clauses with positional parameters.
//
// Clauses are written with "?" markers and numbered $1..$N by Build in the
// order they were appended:
//
//	wb := query.New()
//	wb.Where("s.user_id = ?", userID)
//	wb.Eq("r.language", language)        // skipped when language == ""
//	wb.Eq("r.skill_level", skillLevel)
//	clause, args := wb.Build()
//	// "s.user_id = $1 AND r.skill_level = $2", [userID, skillLevel]
type WhereBuilder struct {
	terms []term
	start int
}

// New creates an empty builder numbering from $1.
func New() *WhereBuilder {
	return &WhereBuilder{start: 1}
}

// NewWithBase creates a builder seeded with a base predicate, typically
// the entity key every query in a handler shares.
func NewWithBase(clause string, args ...interface{}) *WhereBuilder {
	return New().Where(clause, args...)
}

// StartAt makes Build number placeholders from n. Use it when the
// predicate follows other bound parameters in the same statement.
func (wb *WhereBuilder) StartAt(n int) *WhereBuilder {
	if n < 1 {
		n = 1
	}
	wb.start = n
	return wb
}

// Where appends a condition unconditionally. The number of "?" markers
// in clause must equal len(args); a mismatch is a programming error and
// panics.
func (wb *WhereBuilder) Where(clause string, args ...interface{}) *WhereBuilder {
	if n := CountPlaceholders(clause); n != len(args) {
		panic(fmt.Sprintf("query: clause %q has %d placeholders but %d args", clause, n, len(args)))
	}
	wb.terms = append(wb.terms, term{clause: clause, args: args})
	return wb
}

// WhereIf appends the condition only when cond is true.
func (wb *WhereBuilder) WhereIf(cond bool, clause string, args ...interface{}) *WhereBuilder {
	if cond {
		wb.Where(clause, args...)
	}
	return wb
}

// Eq adds "column = ?" when value is non-empty.
func (wb *WhereBuilder) Eq(column, value string) *WhereBuilder {
	return wb.WhereIf(value != "", column+" = ?", value)
}

// EqIn is Eq restricted to an enumerated set. An empty value is skipped;
// a value outside allowed returns an error and leaves the builder unchanged.
func (wb *WhereBuilder) EqIn(column, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			wb.Where(column+" = ?", value)
			return nil
		}
	}
	return fmt.Errorf("%s must be one of: %s", column, strings.Join(allowed, ", "))
}

// ILike adds a case-insensitive substring match when term is non-empty.
// LIKE metacharacters in term are matched literally.
func (wb *WhereBuilder) ILike(column, term string) *WhereBuilder {
	return wb.WhereIf(term != "", column+` ILIKE ? ESCAPE '\'`, ContainsPattern(term))
}

// ILikeAny adds "(c1 ILIKE ? OR c2 ILIKE ? ...)" with the same pattern bound
// once per column.
func (wb *WhereBuilder) ILikeAny(columns []string, term string) *WhereBuilder {
	if term == "" || len(columns) == 0 {
		return wb
	}
	pattern := ContainsPattern(term)
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, c := range columns {
		parts[i] = c + ` ILIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return wb.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// Since adds "column >= ?" when t is set.
func (wb *WhereBuilder) Since(column string, t time.Time) *WhereBuilder {
	return wb.WhereIf(!t.IsZero(), column+" >= ?", t)
}

// Until adds "column <= ?" when t is set.
func (wb *WhereBuilder) Until(column string, t time.Time) *WhereBuilder {
	return wb.WhereIf(!t.IsZero(), column+" <= ?", t)
}

// raw returns the joined predicate with "?" markers and the flat arg list.
func (wb *WhereBuilder) raw() (string, []interface{}) {
	if len(wb.terms) == 0 {
		return "1=1", []interface{}{}
	}
	clauses := make([]string, len(wb.terms))
	args := make([]interface{}, 0, len(wb.terms))
	for i, t := range wb.terms {
		clauses[i] = t.clause
		args = append(args, t.args...)
	}
	return strings.Join(clauses, " AND "), args
}

// Build returns the AND-joined predicate numbered from the start position,
// and its arguments. An empty builder yields ("1=1", []).
func (wb *WhereBuilder) Build() (string, []interface{}) {
	clause, args := wb.raw()
	return Renumber(clause, wb.start), args
}

// BuildWithPrefix is Build with a leading "WHERE ", or "" when empty.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	if wb.IsEmpty() {
		return "", []interface{}{}
	}
	clause, args := wb.Build()
	return "WHERE " + clause, args
}

// Next returns the placeholder number that follows the built predicate.
func (wb *WhereBuilder) Next() int {
	return wb.start + wb.ArgCount()
}

// Paginate returns a "LIMIT $n OFFSET $n+1" suffix numbered after the
// predicate, with its two arguments.
func (wb *WhereBuilder) Paginate(limit, offset int) (string, []interface{}) {
	n := wb.Next()
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", n, n+1), []interface{}{limit, offset}
}

// ArgCount returns the number of bound arguments.
func (wb *WhereBuilder) ArgCount() int {
	n := 0
	for _, t := range wb.terms {
		n += len(t.args)
	}
	return n
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.terms)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.terms) == 0
}
