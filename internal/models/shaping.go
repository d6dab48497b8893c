// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package models

import (
	"database/sql"
	"math"
	"time"

	"github.com/goccy/go-json"
)

// Int64Or0 coalesces a nullable integer column to zero.
func Int64Or0(v sql.NullInt64) int64 {
	if v.Valid {
		return v.Int64
	}
	return 0
}

// Float64Or0 coalesces a nullable float column to zero, rounded to two
// decimals for presentation.
func Float64Or0(v sql.NullFloat64) float64 {
	if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
		return 0
	}
	return math.Round(v.Float64*100) / 100
}

// StringOrEmpty coalesces a nullable text column to "".
func StringOrEmpty(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}

// StringPtr returns nil for NULL.
func StringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// BoolOrFalse coalesces a nullable boolean column to false.
func BoolOrFalse(v sql.NullBool) bool {
	return v.Valid && v.Bool
}

// TimePtr returns nil for NULL and a UTC time otherwise.
func TimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

// ParseJSONBlob parses a serialized JSON column. NULL, empty and malformed
// input all yield nil so one bad row never fails a whole response.
func ParseJSONBlob(v sql.NullString) interface{} {
	if !v.Valid || v.String == "" {
		return nil
	}
	var out interface{}
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return nil
	}
	return out
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
