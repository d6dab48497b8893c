// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package cache

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is advanced by hand so expiry tests never sleep.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := New(ttl, 0)
	c.now = clock.Now
	t.Cleanup(c.Close)
	return c, clock
}

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t, time.Minute)

	c.Set("stats", "value1")
	value, ok := c.Get("stats")
	if !ok || value != "value1" {
		t.Errorf("Get(stats) = %v, %v", value, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()
	c, clock := newTestCache(t, 30*time.Second)

	c.Set("k", 1)
	clock.Advance(29 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired early")
	}
	clock.Advance(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should expire at exactly ttl")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want expired entry removed", c.Len())
	}
}

func TestCacheZeroTTLDisables(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t, 0)

	c.Set("k", 1)
	if _, ok := c.Get("k"); ok {
		t.Error("zero ttl must not cache")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestCacheGetOrLoad(t *testing.T) {
	t.Parallel()
	c, clock := newTestCache(t, time.Minute)

	calls := 0
	load := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	v, hit, err := c.GetOrLoad("k", load)
	if err != nil || hit || v != 1 {
		t.Fatalf("first load = %v, %v, %v", v, hit, err)
	}
	v, hit, _ = c.GetOrLoad("k", load)
	if !hit || v != 1 {
		t.Errorf("second load = %v, %v, want cached 1", v, hit)
	}

	clock.Advance(time.Minute)
	v, hit, _ = c.GetOrLoad("k", load)
	if hit || v != 2 {
		t.Errorf("after expiry = %v, %v, want fresh 2", v, hit)
	}
}

func TestCacheGetOrLoadDoesNotCacheErrors(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t, time.Minute)

	boom := errors.New("boom")
	if _, _, err := c.GetOrLoad("k", func() (interface{}, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if c.Len() != 0 {
		t.Error("error result was cached")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted key still present")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
	if s := c.GetStats(); s.TotalKeys != 0 || s.Evictions != 3 {
		t.Errorf("stats = %+v, want 0 keys and 3 evictions", s)
	}
}

func TestCacheCleanup(t *testing.T) {
	t.Parallel()
	c, clock := newTestCache(t, time.Minute)

	c.Set("old", 1)
	clock.Advance(45 * time.Second)
	c.Set("new", 2)
	clock.Advance(30 * time.Second)

	c.cleanup()
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("unexpired entry was swept")
	}
	if s := c.GetStats(); !s.LastCleanup.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v", s.LastCleanup)
	}
}

func TestCacheStatsCounters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		hits   int
		misses int
	}{
		{"no traffic", 0, 0},
		{"only misses", 0, 4},
		{"only hits", 3, 0},
		{"mixed", 3, 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _ := newTestCache(t, time.Minute)
			c.Set("k", 1)
			for i := 0; i < tt.hits; i++ {
				c.Get("k")
			}
			for i := 0; i < tt.misses; i++ {
				c.Get("missing")
			}
			s := c.GetStats()
			if s.Hits != int64(tt.hits) || s.Misses != int64(tt.misses) || s.TotalKeys != 1 {
				t.Errorf("stats = %+v, want %d hits %d misses 1 key", s, tt.hits, tt.misses)
			}
		})
	}
}

func TestCacheGetOrLoadSharesConcurrentMisses(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t, time.Minute)

	var (
		mu    sync.Mutex
		calls int
	)
	release := make(chan struct{})
	load := func() (interface{}, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return "value", nil
	}

	const callers = 20
	var wg sync.WaitGroup
	results := make(chan interface{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := c.GetOrLoad("stats", load)
			if err != nil {
				t.Errorf("GetOrLoad: %v", err)
			}
			results <- v
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for v := range results {
		if v != "value" {
			t.Errorf("result = %v, want value", v)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()
	c := New(time.Minute, time.Millisecond)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("k", id)
				c.Get("k")
				if j%10 == 0 {
					c.Delete("k")
				}
			}
		}(i)
	}
	wg.Wait()

	if s := c.GetStats(); s.Hits+s.Misses != 1000 {
		t.Errorf("lookups = %d, want 1000", s.Hits+s.Misses)
	}
}

func TestCacheCloseIdempotent(t *testing.T) {
	t.Parallel()
	c := New(time.Minute, time.Second)
	c.Close()
	c.Close()
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	type params struct {
		Days  int
		Limit int
	}
	a := GenerateKey("leaderboard:most-active", params{7, 10})
	b := GenerateKey("leaderboard:most-active", params{7, 10})
	c := GenerateKey("leaderboard:most-active", params{30, 10})
	d := GenerateKey("leaderboard:most-stalked", params{7, 10})

	if a != b {
		t.Error("same params produced different keys")
	}
	if a == c || a == d {
		t.Error("different inputs produced the same key")
	}
	if got := GenerateKey("stats", make(chan int)); got == "" {
		t.Error("unmarshalable params should fall back to a formatted key")
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New(time.Minute, 0)
	defer c.Close()
	c.Set("key", "value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key")
	}
}
