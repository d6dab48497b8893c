// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/roomscope/internal/validation"
)

// Query parameter defaults and bounds. Endpoints that page through users or
// rooms take their default and maximum from the API config instead.
const (
	defaultHistoryLimit   = 50
	defaultTimelineLimit  = 50
	defaultSnapshotLimit  = 100
	defaultTrendingHours  = 24
	defaultTrendingLimit  = 10
	defaultActiveLimit    = 50
	defaultBoardLimit     = 10
	defaultAnalyticsDays  = 30
	defaultMostActiveDays = 7
	defaultMinOverlaps    = 1

	// minSearchLength is the shortest trimmed query that reaches storage.
	minSearchLength = 2
)

// Requests carry validate tags checked by validation.ValidateStruct. The
// query tag names the parameter in error messages.

type userSearchRequest struct {
	Q     string `query:"q"`
	Limit int    `query:"limit" validate:"min=1"`
}

type historyRequest struct {
	Type  string `query:"type" validate:"omitempty,max=64"`
	Limit int    `query:"limit" validate:"min=1,max=500"`
}

type userRoomsRequest struct {
	Language   string `query:"language" validate:"omitempty,max=64"`
	SkillLevel string `query:"skill_level" validate:"omitempty,max=64"`
	Limit      int    `query:"limit" validate:"min=1"`
	Offset     int    `query:"offset" validate:"gte=0"`
}

type sharedRoomsRequest struct {
	MinOverlaps int `query:"min_overlaps" validate:"lte=100000"`
}

type timelineRequest struct {
	EventType string `query:"event_type" validate:"omitempty,oneof=join leave"`
	Limit     int    `query:"limit" validate:"min=1,max=500"`
	Offset    int    `query:"offset" validate:"gte=0"`
}

type snapshotsRequest struct {
	StartDate string `query:"start_date" validate:"omitempty,flexdate"`
	EndDate   string `query:"end_date" validate:"omitempty,flexdate"`
	Limit     int    `query:"limit" validate:"min=1,max=1000"`
}

type analyticsRequest struct {
	Days int `query:"days" validate:"min=1,max=365"`
}

type trendingRequest struct {
	Hours int `query:"hours" validate:"min=1,max=720"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

type activeRoomsRequest struct {
	Language   string `query:"language" validate:"omitempty,max=64"`
	SkillLevel string `query:"skill_level" validate:"omitempty,max=64"`
	Limit      int    `query:"limit" validate:"min=1,max=200"`
}

type roomSearchRequest struct {
	Q          string `query:"q"`
	Language   string `query:"language" validate:"omitempty,max=64"`
	SkillLevel string `query:"skill_level" validate:"omitempty,max=64"`
	Limit      int    `query:"limit" validate:"min=1"`
}

// leaderboardRequest is most-stalked, where days=0 means all time.
type leaderboardRequest struct {
	Days  int `query:"days" validate:"gte=0,lte=365"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

// mostActiveRequest always has a window.
type mostActiveRequest struct {
	Days  int `query:"days" validate:"min=1,max=365"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

// queryReader reads typed query parameters, collecting parse failures so
// they are reported together with validator failures.
type queryReader struct {
	values url.Values
	errs   []validation.FieldError
}

func newQueryReader(r *http.Request) *queryReader {
	return &queryReader{values: r.URL.Query()}
}

// str returns the trimmed value or "".
func (q *queryReader) str(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

// intOr returns the parsed value, or def when the parameter is absent.
func (q *queryReader) intOr(key string, def int) int {
	raw := q.str(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.errs = append(q.errs, validation.FieldError{
			Field:   key,
			Tag:     "int",
			Value:   raw,
			Message: fmt.Sprintf("%s must be an integer", key),
		})
		return def
	}
	return v
}

// boolOr accepts the strconv.ParseBool spellings.
func (q *queryReader) boolOr(key string, def bool) bool {
	raw := q.str(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.errs = append(q.errs, validation.FieldError{
			Field:   key,
			Tag:     "boolean",
			Value:   raw,
			Message: fmt.Sprintf("%s must be true or false", key),
		})
		return def
	}
	return v
}

// atMost records an error when v exceeds a bound known only at runtime.
func (q *queryReader) atMost(key string, v, max int) {
	if v > max {
		q.errs = append(q.errs, validation.FieldError{
			Field:   key,
			Tag:     "max",
			Value:   v,
			Message: fmt.Sprintf("%s must be at most %d", key, max),
		})
	}
}

// validate runs the struct rules and returns every collected failure, or
// nil when the request is valid.
func (q *queryReader) validate(req interface{}) error {
	errs := q.errs
	if verr := validation.ValidateStruct(req); verr != nil {
		errs = append(errs, verr.Errors()...)
	}
	if len(errs) == 0 {
		return nil
	}
	return validation.NewRequestValidationError(errs...)
}

// parseRange turns validated start/end strings into times. A date-only end
// covers the whole day.
func parseRange(start, end string) (from, to time.Time) {
	if start != "" {
		from, _ = validation.ParseDate(start)
	}
	if end != "" {
		to, _ = validation.ParseDate(end)
		if isDateOnly(end) {
			to = to.Add(24*time.Hour - time.Microsecond)
		}
	}
	return from, to
}

func isDateOnly(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// searchTerm trims q and reports whether it is long enough to search.
func searchTerm(q string) (string, bool) {
	q = strings.TrimSpace(q)
	return q, len([]rune(q)) >= minSearchLength
}
