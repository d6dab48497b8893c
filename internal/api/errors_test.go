// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/roomscope/internal/database"
	"github.com/tomtom215/roomscope/internal/logging"
	"github.com/tomtom215/roomscope/internal/validation"
)

func TestRespondErr_MapsKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantError   string
		wantDetails bool
	}{
		{
			name:       "not found",
			err:        database.NotFound("user", "u42"),
			wantStatus: http.StatusNotFound,
			wantError:  `user "u42" not found`,
		},
		{
			name:        "wrapped not found",
			err:         fmt.Errorf("load profile: %w", database.NotFound("room", "r9")),
			wantStatus:  http.StatusNotFound,
			wantError:   `load profile: room "r9" not found`,
			wantDetails: false,
		},
		{
			name:        "validation",
			err:         database.Validation("end_date must not be before start_date"),
			wantStatus:  http.StatusBadRequest,
			wantError:   "invalid request",
			wantDetails: true,
		},
		{
			name: "request validation",
			err: validation.NewRequestValidationError(validation.FieldError{
				Field: "limit", Tag: "max", Message: "limit must be at most 100",
			}),
			wantStatus:  http.StatusBadRequest,
			wantError:   "invalid request",
			wantDetails: true,
		},
		{
			name:        "storage",
			err:         database.Storage("search_users", errStoreDown),
			wantStatus:  http.StatusInternalServerError,
			wantError:   "internal server error",
			wantDetails: true,
		},
		{
			name:        "unclassified",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantError:   "internal server error",
			wantDetails: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/users/u42", nil)
			req = req.WithContext(logging.ContextWithRequestID(req.Context(), "req-1"))
			rec := httptest.NewRecorder()

			respondErr(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			body := decodeError(t, rec)
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
			if hasDetails := len(body.Details) > 0 && string(body.Details) != "null"; hasDetails != tt.wantDetails {
				t.Errorf("details present = %v, want %v (%s)", hasDetails, tt.wantDetails, body.Details)
			}
			if body.RequestID != "req-1" {
				t.Errorf("request_id = %q, want req-1", body.RequestID)
			}
		})
	}
}

func TestRespondErr_ValidationMessageWithoutPrefix(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/rooms/r1/snapshots", nil)
	rec := httptest.NewRecorder()
	respondErr(rec, req, database.Validation("end_date must not be before start_date"))

	body := decodeError(t, rec)
	if !strings.Contains(string(body.Details), `"message":"end_date must not be before start_date"`) {
		t.Errorf("details = %s", body.Details)
	}
	if got := body.fields(t); len(got) != 1 || got[0] != "request" {
		t.Errorf("fields = %v, want [request]", got)
	}
}

func TestHandle_PassesThroughOnSuccess(t *testing.T) {
	t.Parallel()

	h := handle(func(w http.ResponseWriter, r *http.Request) error {
		respondJSON(w, http.StatusTeapot, map[string]string{"ok": "yes"})
		return nil
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	got := sanitizeLogValue("/users/a\nforged=1\x7f")
	if strings.ContainsAny(got, "\n\x7f") {
		t.Errorf("control characters survived: %q", got)
	}
	if !strings.Contains(got, `\x0a`) {
		t.Errorf("expected escaped newline, got %q", got)
	}
}
