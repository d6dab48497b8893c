// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package validation

import (
	"strings"
	"testing"
	"time"
)

type timelineRequest struct {
	EventType string `query:"event_type" validate:"omitempty,oneof=join leave"`
	Limit     int    `query:"limit" validate:"min=1,max=500"`
	Offset    int    `query:"offset" validate:"gte=0"`
	StartDate string `query:"start_date" validate:"omitempty,flexdate"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("expected the same validator instance")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		req        timelineRequest
		wantFields []string
	}{
		{"valid", timelineRequest{EventType: "join", Limit: 50}, nil},
		{"empty enum allowed", timelineRequest{Limit: 1}, nil},
		{"bad enum", timelineRequest{EventType: "kick", Limit: 50}, []string{"event_type"}},
		{"limit too big", timelineRequest{Limit: 501}, []string{"limit"}},
		{"negative offset", timelineRequest{Limit: 10, Offset: -1}, []string{"offset"}},
		{"bad date", timelineRequest{Limit: 10, StartDate: "yesterday"}, []string{"start_date"}},
		{"date only", timelineRequest{Limit: 10, StartDate: "2024-05-01"}, nil},
		{"two errors", timelineRequest{EventType: "x", Limit: 0}, []string{"event_type", "limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.req)
			if len(tt.wantFields) == 0 {
				if verr != nil {
					t.Fatalf("expected no error, got %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected errors on %v", tt.wantFields)
			}
			got := verr.Errors()
			if len(got) != len(tt.wantFields) {
				t.Fatalf("expected %d errors, got %d: %v", len(tt.wantFields), len(got), verr)
			}
			for i, f := range tt.wantFields {
				if got[i].Field != f {
					t.Errorf("error %d field = %q, want %q", i, got[i].Field, f)
				}
			}
		})
	}
}

func TestTranslateError_Messages(t *testing.T) {
	verr := ValidateStruct(&timelineRequest{EventType: "kick", Limit: 1})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if msg := verr.Error(); msg != "event_type must be one of: join leave" {
		t.Errorf("unexpected message %q", msg)
	}

	verr = ValidateStruct(&timelineRequest{Limit: 0})
	if verr == nil || !strings.Contains(verr.Error(), "limit must be at least 1") {
		t.Errorf("unexpected message %v", verr)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-05-01T10:15:00Z", time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC), true},
		{"2024-05-01T12:15:00+02:00", time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC), true},
		{"2024-05-01T10:15:00", time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC), true},
		{"05/01/2024", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseDate(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewRequestValidationError(t *testing.T) {
	verr := NewRequestValidationError(
		FieldError{Field: "limit", Tag: "int", Message: "limit must be an integer"},
		FieldError{Field: "days", Tag: "int", Message: "days must be an integer"},
	)
	if len(verr.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(verr.Errors()))
	}
	if verr.Error() != "limit must be an integer; days must be an integer" {
		t.Errorf("unexpected message %q", verr.Error())
	}
	if NewRequestValidationError().Error() != "validation failed" {
		t.Error("empty error should fall back to a generic message")
	}
}
