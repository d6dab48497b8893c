// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package api

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/roomscope/internal/eventprocessor"
	"github.com/tomtom215/roomscope/internal/logging"
	"github.com/tomtom215/roomscope/internal/models"
)

func TestSearchUsers_ShortTermSkipsStore(t *testing.T) {
	t.Parallel()

	for _, q := range []string{"", "a", "%20%20a%20%20", "%20"} {
		store := newFakeStore()
		srv := newTestServer(t, store, nil, testAPIConfig())

		rec := doRequest(t, srv, http.MethodGet, "/users/search?q="+q)
		if rec.Code != http.StatusOK {
			t.Fatalf("q=%q: status = %d", q, rec.Code)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Errorf("q=%q: body = %s, want []", q, body)
		}
		if n := store.called("SearchUsers"); n != 0 {
			t.Errorf("q=%q: store called %d times", q, n)
		}
	}
}

func TestSearchUsers_TrimsAndUsesDefaultLimit(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	srv := newTestServer(t, store, nil, testAPIConfig())

	rec := doRequest(t, srv, http.MethodGet, "/users/search?q=%20al%20")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if store.lastQuery != "al" {
		t.Errorf("query = %q, want al", store.lastQuery)
	}
	if store.lastLimit != 20 {
		t.Errorf("limit = %d, want 20", store.lastLimit)
	}

	var users []models.User
	decodeBody(t, rec, &users)
	if len(users) != 1 || users[0].Username != "alice" {
		t.Errorf("users = %+v", users)
	}
}

func TestSearchUsers_LimitValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query     string
		wantField string
	}{
		{"limit=101", "limit"},
		{"limit=0", "limit"},
		{"limit=ten", "limit"},
	}
	for _, tt := range tests {
		store := newFakeStore()
		srv := newTestServer(t, store, nil, testAPIConfig())

		rec := doRequest(t, srv, http.MethodGet, "/users/search?q=alice&"+tt.query)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", tt.query, rec.Code)
		}
		body := decodeError(t, rec)
		fields := body.fields(t)
		if len(fields) == 0 || fields[0] != tt.wantField {
			t.Errorf("%s: fields = %v, want %s", tt.query, fields, tt.wantField)
		}
		if store.called("SearchUsers") != 0 {
			t.Errorf("%s: store called on invalid request", tt.query)
		}
	}
}

func TestSearchUsers_ConfiguredMaxPageSize(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	cfg := testAPIConfig()
	cfg.MaxPageSize = 10
	srv := newTestServer(t, store, nil, cfg)

	if rec := doRequest(t, srv, http.MethodGet, "/users/search?q=alice&limit=11"); rec.Code != http.StatusBadRequest {
		t.Errorf("limit above configured max: status = %d, want 400", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/users/search?q=alice&limit=10"); rec.Code != http.StatusOK {
		t.Errorf("limit at configured max: status = %d, want 200", rec.Code)
	}
}

func TestGetUser_IdentityFirstLookup(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	srv := newTestServer(t, store, nil, testAPIConfig())

	tests := []struct {
		ref    string
		wantID string
	}{
		{"u1", "u1"},
		{"ALICE", "u1"},
		// "bob" is both a user_id and another account's username.
		{"bob", "bob"},
	}
	for _, tt := range tests {
		rec := doRequest(t, srv, http.MethodGet, "/users/"+tt.ref)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tt.ref, rec.Code)
		}
		var profile models.UserProfile
		decodeBody(t, rec, &profile)
		if profile.UserID != tt.wantID {
			t.Errorf("%s: user_id = %q, want %q", tt.ref, profile.UserID, tt.wantID)
		}
	}
}

func TestGetUser_NotFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, newFakeStore(), nil, testAPIConfig())
	rec := doRequest(t, srv, http.MethodGet, "/users/ghost")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body := decodeError(t, rec); !strings.Contains(body.Error, "ghost") {
		t.Errorf("error = %q", body.Error)
	}
}

func TestGetUser_RecordView(t *testing.T) {
	t.Parallel()

	views := &fakeViews{}
	srv := newTestServer(t, newFakeStore(), views, testAPIConfig())

	rec := doRequest(t, srv, http.MethodGet, "/users/alice?record_view=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := views.submitted()
	if len(got) != 1 {
		t.Fatalf("submitted %d views, want 1", len(got))
	}
	if got[0].ViewedUserID != "u1" {
		t.Errorf("viewed user = %q, want resolved id u1", got[0].ViewedUserID)
	}
	if got[0].ViewerUserAgent != "roomscope-test" {
		t.Errorf("user agent = %q", got[0].ViewerUserAgent)
	}
	if got[0].ViewerIP != "192.0.2.1" {
		t.Errorf("viewer ip = %q, want 192.0.2.1", got[0].ViewerIP)
	}

	doRequest(t, srv, http.MethodGet, "/users/alice")
	if n := len(views.submitted()); n != 1 {
		t.Errorf("view recorded without record_view: %d views", n)
	}
}

func TestGetUser_RecordViewFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	views := &fakeViews{err: errors.New("queue closed")}
	srv := newTestServer(t, newFakeStore(), views, testAPIConfig())

	rec := doRequest(t, srv, http.MethodGet, "/users/u1?record_view=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetUser_InvalidRecordView(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, newFakeStore(), &fakeViews{}, testAPIConfig())
	rec := doRequest(t, srv, http.MethodGet, "/users/u1?record_view=maybe")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecordView(t *testing.T) {
	t.Parallel()

	views := &fakeViews{}
	srv := newTestServer(t, newFakeStore(), views, testAPIConfig())

	req := httptest.NewRequest(http.MethodPost, "/users/alice/view", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("User-Agent", strings.Repeat("x", 400))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	var body QueuedResponse
	decodeBody(t, rec, &body)
	if !body.Success || !body.Queued {
		t.Errorf("body = %+v", body)
	}

	got := views.submitted()
	if len(got) != 1 {
		t.Fatalf("submitted %d views, want 1", len(got))
	}
	if got[0].ViewerIP != "203.0.113.9" {
		t.Errorf("viewer ip = %q, want forwarded address", got[0].ViewerIP)
	}
	if n := len([]rune(got[0].ViewerUserAgent)); n != models.MaxViewerUserAgentLength {
		t.Errorf("user agent length = %d, want %d", n, models.MaxViewerUserAgentLength)
	}
}

func TestRecordView_UnknownUserSubmitsNothing(t *testing.T) {
	t.Parallel()

	views := &fakeViews{}
	srv := newTestServer(t, newFakeStore(), views, testAPIConfig())

	rec := doRequest(t, srv, http.MethodPost, "/users/ghost/view")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if n := len(views.submitted()); n != 0 {
		t.Errorf("submitted %d views for unknown user", n)
	}
}

func TestRecordView_SubmitFailureStillAccepted(t *testing.T) {
	t.Parallel()

	views := &fakeViews{err: errors.New("rate limited")}
	srv := newTestServer(t, newFakeStore(), views, testAPIConfig())

	if rec := doRequest(t, srv, http.MethodPost, "/users/u1/view"); rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
}

// Not parallel: swaps the global logger.
func TestRecordView_FailureLogLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := logging.Logger()
	prevLevel := zerolog.GlobalLevel()
	logging.SetLogger(logging.NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		logging.SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})

	tests := []struct {
		name      string
		err       error
		wantLevel string
	}{
		{"recorder closed", eventprocessor.ErrRecorderClosed, "debug"},
		{"rate limited", fmt.Errorf("viewer 192.0.2.1: %w", eventprocessor.ErrRateLimited), "debug"},
		{"transport fault", errors.New("nats: no responders available"), "warn"},
	}
	for _, tt := range tests {
		buf.Reset()
		views := &fakeViews{err: tt.err}
		srv := newTestServer(t, newFakeStore(), views, testAPIConfig())

		if rec := doRequest(t, srv, http.MethodPost, "/users/u1/view"); rec.Code != http.StatusAccepted {
			t.Fatalf("%s: status = %d, want 202", tt.name, rec.Code)
		}
		levels := viewFailureLevels(t, buf.Bytes())
		if len(levels) != 1 || levels[0] != tt.wantLevel {
			t.Errorf("%s: levels = %v, want [%s]", tt.name, levels, tt.wantLevel)
		}
	}
}

// viewFailureLevels returns the level of every "profile view not recorded"
// entry in a JSON log stream.
func viewFailureLevels(t *testing.T, logs []byte) []string {
	t.Helper()
	var levels []string
	sc := bufio.NewScanner(bytes.NewReader(logs))
	for sc.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("decode log entry %q: %v", sc.Text(), err)
		}
		if entry["message"] == "profile view not recorded" {
			level, _ := entry["level"].(string)
			levels = append(levels, level)
		}
	}
	return levels
}

func TestGetUserHistory(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	srv := newTestServer(t, store, nil, testAPIConfig())

	rec := doRequest(t, srv, http.MethodGet, "/users/u1/history?type=room_join")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
	if store.lastType != "room_join" || store.lastLimit != defaultHistoryLimit {
		t.Errorf("type=%q limit=%d", store.lastType, store.lastLimit)
	}

	if rec := doRequest(t, srv, http.MethodGet, "/users/u1/history?limit=501"); rec.Code != http.StatusBadRequest {
		t.Errorf("limit=501: status = %d, want 400", rec.Code)
	}
}

func TestGetUserRooms_Pagination(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	srv := newTestServer(t, store, nil, testAPIConfig())

	rec := doRequest(t, srv, http.MethodGet, "/users/u1/rooms?language=English&limit=1&offset=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var page models.Page[models.UserRoomHistory]
	decodeBody(t, rec, &page)
	if page.Pagination.Limit != 1 || page.Pagination.Offset != 1 || page.Pagination.Total != 3 {
		t.Errorf("pagination = %+v", page.Pagination)
	}
	if !page.Pagination.HasMore {
		t.Error("has_more = false, want true")
	}
	if store.lastUserRooms.Language != "English" {
		t.Errorf("filter = %+v", store.lastUserRooms)
	}

	if rec := doRequest(t, srv, http.MethodGet, "/users/u1/rooms?offset=-1"); rec.Code != http.StatusBadRequest {
		t.Errorf("offset=-1: status = %d, want 400", rec.Code)
	}
}

func TestGetUserRoomSessions(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, newFakeStore(), nil, testAPIConfig())
	rec := doRequest(t, srv, http.MethodGet, "/users/alice/rooms/r1/sessions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var sessions []models.Session
	decodeBody(t, rec, &sessions)
	if len(sessions) != 1 || sessions[0].UserID != "u1" || sessions[0].RoomID != "r1" {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestGetSharedRooms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"two users", "/users/u1/shared/u2", http.StatusOK},
		{"by username", "/users/alice/shared/u2", http.StatusOK},
		{"same user", "/users/u1/shared/alice", http.StatusBadRequest},
		{"unknown user", "/users/u1/shared/ghost", http.StatusNotFound},
		{"non-numeric min_overlaps", "/users/u1/shared/u2?min_overlaps=x", http.StatusBadRequest},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t, newFakeStore(), nil, testAPIConfig())
			if rec := doRequest(t, srv, http.MethodGet, tt.path); rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestGetSharedRooms_MinOverlapsPassedThrough(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	srv := newTestServer(t, store, nil, testAPIConfig())

	doRequest(t, srv, http.MethodGet, "/users/u1/shared/u2")
	if store.lastMinOverlaps != 1 {
		t.Errorf("default min_overlaps = %d, want 1", store.lastMinOverlaps)
	}
	doRequest(t, srv, http.MethodGet, "/users/u1/shared/u2?min_overlaps=3")
	if store.lastMinOverlaps != 3 {
		t.Errorf("min_overlaps = %d, want 3", store.lastMinOverlaps)
	}
}

func TestUserEndpoints_StorageFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.err = errStoreDown
	srv := newTestServer(t, store, nil, testAPIConfig())

	for _, path := range []string{
		"/users/search?q=alice",
		"/users/u1",
		"/users/u1/history",
		"/users/u1/rooms",
		"/users/u1/shared/u2",
	} {
		rec := doRequest(t, srv, http.MethodGet, path)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d, want 500", path, rec.Code)
			continue
		}
		body := decodeError(t, rec)
		if !strings.Contains(string(body.Details), "connection refused") {
			t.Errorf("%s: details = %s", path, body.Details)
		}
	}
}
