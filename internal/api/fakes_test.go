// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/roomscope/internal/config"
	"github.com/tomtom215/roomscope/internal/database"
	"github.com/tomtom215/roomscope/internal/models"
)

// fakeStore serves canned users and rooms and records what it was asked.
// Setting err makes every query fail with it.
type fakeStore struct {
	mu sync.Mutex

	users   []models.User
	rooms   map[string]models.RoomDetail
	err     error
	pingErr error

	calls map[string]int

	lastQuery       string
	lastLimit       int
	lastDays        int
	lastHours       int
	lastType        string
	lastMinOverlaps int
	lastCurrentOnly bool
	lastUserRooms   database.UserRoomsFilter
	lastTimeline    database.TimelineFilter
	lastSnapshots   database.SnapshotFilter
	lastRoomFilter  database.RoomFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: []models.User{
			{UserID: "u1", Username: "alice", FollowersCount: 100},
			{UserID: "u2", Username: "bob"},
			{UserID: "bob", Username: "not-bob"},
		},
		rooms: map[string]models.RoomDetail{
			"r1": {Room: models.Room{RoomID: "r1", Language: "English", MaxCapacity: 5, CurrentUsersCount: 5, IsFull: true}},
		},
		calls: make(map[string]int),
	}
}

func (f *fakeStore) called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStore) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.err
}

// resolve matches user_id exactly first, then username case-insensitively.
func (f *fakeStore) resolve(idOrName string) (models.User, error) {
	for _, u := range f.users {
		if u.UserID == idOrName {
			return u, nil
		}
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Username, idOrName) {
			return u, nil
		}
	}
	return models.User{}, database.NotFound("user", idOrName)
}

func (f *fakeStore) room(roomID string) (models.RoomDetail, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return models.RoomDetail{}, database.NotFound("room", roomID)
	}
	return room, nil
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }
func (f *fakeStore) Driver() string             { return config.DriverDuckDB }

func (f *fakeStore) ResolveUser(_ context.Context, idOrName string) (models.User, error) {
	if err := f.record("ResolveUser"); err != nil {
		return models.User{}, err
	}
	return f.resolve(idOrName)
}

func (f *fakeStore) SearchUsers(_ context.Context, q string, limit int) ([]models.User, error) {
	if err := f.record("SearchUsers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastQuery, f.lastLimit = q, limit
	f.mu.Unlock()

	var out []models.User
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(q)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) GetUserProfile(_ context.Context, idOrName string) (models.UserProfile, error) {
	if err := f.record("GetUserProfile"); err != nil {
		return models.UserProfile{}, err
	}
	u, err := f.resolve(idOrName)
	if err != nil {
		return models.UserProfile{}, err
	}
	return models.UserProfile{User: u}, nil
}

func (f *fakeStore) GetUserHistory(_ context.Context, idOrName, activityType string, limit int) ([]models.ActivityLog, error) {
	if err := f.record("GetUserHistory"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastType, f.lastLimit = activityType, limit
	f.mu.Unlock()
	if _, err := f.resolve(idOrName); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeStore) GetUserRooms(_ context.Context, idOrName string, filter database.UserRoomsFilter) (models.Page[models.UserRoomHistory], error) {
	if err := f.record("GetUserRooms"); err != nil {
		return models.Page[models.UserRoomHistory]{}, err
	}
	f.mu.Lock()
	f.lastUserRooms = filter
	f.mu.Unlock()
	if _, err := f.resolve(idOrName); err != nil {
		return models.Page[models.UserRoomHistory]{}, err
	}
	items := []models.UserRoomHistory{{RoomID: "r1"}}
	return models.NewPage(items, 3, filter.Limit, filter.Offset), nil
}

func (f *fakeStore) GetUserRoomSessions(_ context.Context, idOrName, roomID string) ([]models.Session, error) {
	if err := f.record("GetUserRoomSessions"); err != nil {
		return nil, err
	}
	u, err := f.resolve(idOrName)
	if err != nil {
		return nil, err
	}
	return []models.Session{{SessionID: "s1", UserID: u.UserID, RoomID: roomID}}, nil
}

func (f *fakeStore) GetSharedRooms(_ context.Context, user1, user2 string, minOverlaps int) (models.SharedRoomsResult, error) {
	if err := f.record("GetSharedRooms"); err != nil {
		return models.SharedRoomsResult{}, err
	}
	f.mu.Lock()
	f.lastMinOverlaps = minOverlaps
	f.mu.Unlock()

	a, err := f.resolve(user1)
	if err != nil {
		return models.SharedRoomsResult{}, err
	}
	b, err := f.resolve(user2)
	if err != nil {
		return models.SharedRoomsResult{}, err
	}
	if a.UserID == b.UserID {
		return models.SharedRoomsResult{}, database.Validation("cannot compare a user with themselves")
	}
	return models.SharedRoomsResult{
		User1:       models.UserRef{UserID: a.UserID, Username: a.Username},
		User2:       models.UserRef{UserID: b.UserID, Username: b.Username},
		SharedRooms: []models.SharedRoom{},
	}, nil
}

func (f *fakeStore) GetRoom(_ context.Context, roomID string) (models.RoomDetail, error) {
	if err := f.record("GetRoom"); err != nil {
		return models.RoomDetail{}, err
	}
	return f.room(roomID)
}

func (f *fakeStore) GetRoomParticipants(_ context.Context, roomID string, currentOnly bool) ([]models.Participant, error) {
	if err := f.record("GetRoomParticipants"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastCurrentOnly = currentOnly
	f.mu.Unlock()
	if _, err := f.room(roomID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeStore) GetRoomTimeline(_ context.Context, roomID string, filter database.TimelineFilter) (models.Page[models.Session], error) {
	if err := f.record("GetRoomTimeline"); err != nil {
		return models.Page[models.Session]{}, err
	}
	f.mu.Lock()
	f.lastTimeline = filter
	f.mu.Unlock()
	if _, err := f.room(roomID); err != nil {
		return models.Page[models.Session]{}, err
	}
	return models.NewPage[models.Session](nil, 0, filter.Limit, filter.Offset), nil
}

func (f *fakeStore) GetRoomSnapshots(_ context.Context, roomID string, filter database.SnapshotFilter) ([]models.RoomSnapshot, error) {
	if err := f.record("GetRoomSnapshots"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastSnapshots = filter
	f.mu.Unlock()
	if _, err := f.room(roomID); err != nil {
		return nil, err
	}
	if !filter.Start.IsZero() && !filter.End.IsZero() && filter.End.Before(filter.Start) {
		return nil, database.Validation("end_date must not be before start_date")
	}
	return nil, nil
}

func (f *fakeStore) GetRoomAnalytics(_ context.Context, roomID string, days int) ([]models.RoomAnalytics, error) {
	if err := f.record("GetRoomAnalytics"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastDays = days
	f.mu.Unlock()
	if _, err := f.room(roomID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeStore) TrendingRooms(_ context.Context, hours, limit int) ([]models.TrendingRoom, error) {
	if err := f.record("TrendingRooms"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastHours, f.lastLimit = hours, limit
	f.mu.Unlock()
	return nil, nil
}

func (f *fakeStore) ActiveRooms(_ context.Context, filter database.RoomFilter) ([]models.Room, error) {
	if err := f.record("ActiveRooms"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastRoomFilter = filter
	f.mu.Unlock()
	return []models.Room{f.rooms["r1"].Room}, nil
}

func (f *fakeStore) SearchRooms(_ context.Context, q string, filter database.RoomFilter) ([]models.Room, error) {
	if err := f.record("SearchRooms"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastQuery, f.lastRoomFilter = q, filter
	f.mu.Unlock()
	return nil, nil
}

func (f *fakeStore) MostStalked(_ context.Context, days, limit int) ([]models.StalkedEntry, error) {
	if err := f.record("MostStalked"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastDays, f.lastLimit = days, limit
	f.mu.Unlock()
	return nil, nil
}

func (f *fakeStore) MostActive(_ context.Context, days, limit int) ([]models.ActiveEntry, error) {
	if err := f.record("MostActive"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastDays, f.lastLimit = days, limit
	f.mu.Unlock()
	return nil, nil
}

func (f *fakeStore) GlobalStats(context.Context) (models.GlobalStats, error) {
	if err := f.record("GlobalStats"); err != nil {
		return models.GlobalStats{}, err
	}
	return models.GlobalStats{TotalUsers: int64(len(f.users)), TotalRooms: int64(len(f.rooms))}, nil
}

func (f *fakeStore) LanguageStats(context.Context) ([]models.LanguageStats, error) {
	if err := f.record("LanguageStats"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeStore) SkillStats(context.Context) ([]models.SkillStats, error) {
	if err := f.record("SkillStats"); err != nil {
		return nil, err
	}
	return nil, nil
}

// fakeViews records submitted views.
type fakeViews struct {
	mu    sync.Mutex
	views []models.ProfileView
	err   error
}

func (f *fakeViews) Submit(_ context.Context, v models.ProfileView) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.views = append(f.views, v)
	return nil
}

func (f *fakeViews) submitted() []models.ProfileView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ProfileView(nil), f.views...)
}

var errStoreDown = errors.New("connection refused")

func testAPIConfig() config.APIConfig {
	return config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100}
}

// newTestServer returns the full route tree with rate limiting disabled.
func newTestServer(t *testing.T, store Store, views ViewSubmitter, apiCfg config.APIConfig) http.Handler {
	t.Helper()
	h := NewHandler(store, views, apiCfg, "test")
	t.Cleanup(h.Close)

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	return NewRouter(h, NewChiMiddleware(mwCfg)).Setup()
}

func doRequest(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("User-Agent", "roomscope-test")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decodeBody(t, rec, &body)
	return body
}

// errorBody mirrors ErrorResponse with typed details for 400 responses.
type errorBody struct {
	Error     string          `json:"error"`
	Details   json.RawMessage `json:"details"`
	RequestID string          `json:"request_id"`
}

func (b errorBody) fields(t *testing.T) []string {
	t.Helper()
	var details []struct {
		Field string `json:"field"`
		Tag   string `json:"tag"`
	}
	if err := json.Unmarshal(b.Details, &details); err != nil {
		t.Fatalf("details are not field errors: %s", b.Details)
	}
	out := make([]string, len(details))
	for i, d := range details {
		out[i] = d.Field
	}
	return out
}

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t
}
