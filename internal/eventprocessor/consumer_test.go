// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package eventprocessor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/roomscope/internal/metrics"
	"github.com/tomtom215/roomscope/internal/models"
)

// fakeViewStore records inserts and treats a repeated id as a duplicate.
type fakeViewStore struct {
	mu    sync.Mutex
	views map[string]models.ProfileView
	err   error
	block bool
	calls int
}

func newFakeViewStore() *fakeViewStore {
	return &fakeViewStore{views: make(map[string]models.ProfileView)}
}

func (s *fakeViewStore) InsertProfileView(ctx context.Context, v models.ProfileView) (bool, error) {
	s.mu.Lock()
	s.calls++
	block, err := s.block, s.err
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return false, ctx.Err()
	}
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[v.ViewID]; ok {
		return false, nil
	}
	s.views[v.ViewID] = v
	return true, nil
}

func (s *fakeViewStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func viewMessage(t *testing.T, id, user string) *message.Message {
	t.Helper()
	msg, err := (&ProfileViewEvent{EventID: id, ViewedUserID: user}).NewMessage()
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	return msg
}

func TestViewConsumerHandle(t *testing.T) {
	store := newFakeViewStore()
	c := NewViewConsumer(store, nil, time.Second)

	recorded := testutil.ToFloat64(metrics.ProfileViewsRecorded)
	dupes := testutil.ToFloat64(metrics.ProfileViewsDuplicate)

	if err := c.Handle(viewMessage(t, "v1", "u1")); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if err := c.Handle(viewMessage(t, "v1", "u1")); err != nil {
		t.Fatalf("Handle duplicate: %v", err)
	}

	if store.count() != 1 {
		t.Errorf("stored = %d, want 1", store.count())
	}
	if got := testutil.ToFloat64(metrics.ProfileViewsRecorded); got != recorded+1 {
		t.Errorf("recorded delta = %v, want 1", got-recorded)
	}
	if got := testutil.ToFloat64(metrics.ProfileViewsDuplicate); got != dupes+1 {
		t.Errorf("duplicate delta = %v, want 1", got-dupes)
	}
}

func TestViewConsumerSwallowsFailures(t *testing.T) {
	tests := []struct {
		name   string
		store  func() *fakeViewStore
		msg    func(t *testing.T) *message.Message
		reason string
	}{
		{
			name:   "undecodable payload",
			store:  newFakeViewStore,
			msg:    func(t *testing.T) *message.Message { return message.NewMessage("m", []byte("nope")) },
			reason: "decode",
		},
		{
			name: "storage error",
			store: func() *fakeViewStore {
				s := newFakeViewStore()
				s.err = errors.New("disk full")
				return s
			},
			msg:    func(t *testing.T) *message.Message { return viewMessage(t, "v2", "u1") },
			reason: "storage",
		},
		{
			name: "insert timeout",
			store: func() *fakeViewStore {
				s := newFakeViewStore()
				s.block = true
				return s
			},
			msg:    func(t *testing.T) *message.Message { return viewMessage(t, "v3", "u1") },
			reason: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewViewConsumer(tt.store(), nil, 20*time.Millisecond)
			before := testutil.ToFloat64(metrics.ProfileViewFailures.WithLabelValues(tt.reason))

			if err := c.Handle(tt.msg(t)); err != nil {
				t.Fatalf("Handle returned %v, want nil", err)
			}
			if got := testutil.ToFloat64(metrics.ProfileViewFailures.WithLabelValues(tt.reason)); got != before+1 {
				t.Errorf("failures[%s] delta = %v, want 1", tt.reason, got-before)
			}
		})
	}
}

func TestViewConsumerBreakerShedsLoad(t *testing.T) {
	store := newFakeViewStore()
	store.err = errors.New("down")
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "consumer-test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 2,
	})
	c := NewViewConsumer(store, cb, time.Second)

	open := testutil.ToFloat64(metrics.ProfileViewFailures.WithLabelValues("breaker_open"))
	for i := 0; i < 5; i++ {
		_ = c.Handle(viewMessage(t, "v", "u1"))
	}

	store.mu.Lock()
	calls := store.calls
	store.mu.Unlock()
	if calls != 2 {
		t.Errorf("store calls = %d, want 2 before the breaker opened", calls)
	}
	if got := testutil.ToFloat64(metrics.ProfileViewFailures.WithLabelValues("breaker_open")); got != open+3 {
		t.Errorf("breaker_open delta = %v, want 3", got-open)
	}
}
