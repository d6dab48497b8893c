// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package query

import (
	"strconv"
	"strings"
)

// Renumber rewrites each "?" marker outside single-quoted literals as
// $start, $start+1, ... in order of appearance.
func Renumber(sql string, start int) string {
	var b strings.Builder
	b.Grow(len(sql) + 8)
	n := start
	inQuote := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// CountPlaceholders counts "?" markers outside single-quoted literals.
func CountPlaceholders(sql string) int {
	count := 0
	inQuote := false
	for i := 0; i < len(sql); i++ {
		switch sql[i] {
		case '\'':
			inQuote = !inQuote
		case '?':
			if !inQuote {
				count++
			}
		}
	}
	return count
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters using backslash, matching the
// ESCAPE '\' clause the builder emits.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsPattern wraps s as %s% after escaping.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// PrefixPattern returns s% after escaping.
func PrefixPattern(s string) string {
	return EscapeLike(s) + "%"
}
