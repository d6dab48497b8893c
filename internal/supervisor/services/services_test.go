// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package services

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// fakeRunner counts runs. Each run fails with fail until failures is
// exhausted, then blocks until canceled.
type fakeRunner struct {
	runs     atomic.Int32
	failures int32
	fail     error
}

func (f *fakeRunner) RunRouter(ctx context.Context) error {
	n := f.runs.Add(1)
	if n <= f.failures {
		return f.fail
	}
	<-ctx.Done()
	return nil
}

var (
	_ suture.Service = (*ViewRouterService)(nil)
	_ suture.Service = (*PoolStatsService)(nil)
)

func TestViewRouterService_StopsWithContext(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	svc := NewViewRouterService(runner)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return")
	}
	if svc.String() != "view-router" {
		t.Errorf("name = %q", svc.String())
	}
}

func TestViewRouterService_ReportsRouterExit(t *testing.T) {
	t.Parallel()

	runErr := errors.New("subscribe failed")
	svc := NewViewRouterService(&fakeRunner{failures: 1, fail: runErr})
	if err := svc.Serve(context.Background()); !errors.Is(err, runErr) {
		t.Errorf("err = %v, want wrapped run error", err)
	}

	// A router that returns nil while the context is live is still a failure.
	svc = NewViewRouterService(&fakeRunner{failures: 1})
	if err := svc.Serve(context.Background()); err == nil {
		t.Error("expected error for unexpected router exit")
	}
}

func TestViewRouterService_RestartedBySupervisor(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{failures: 2, fail: errors.New("boom")}
	sup := suture.New("views", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   5 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(NewViewRouterService(runner))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for runner.runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-errCh

	if n := runner.runs.Load(); n < 3 {
		t.Errorf("runs = %d, want at least 3", n)
	}
}

type fakePool struct {
	inUse atomic.Int32
}

func (f *fakePool) Stats() sql.DBStats {
	return sql.DBStats{InUse: int(f.inUse.Add(1))}
}

func TestPoolStatsService_RecordsOnTick(t *testing.T) {
	t.Parallel()

	pool := &fakePool{}
	var recorded atomic.Int32
	var lastInUse atomic.Int32
	svc := NewPoolStatsService(pool, func(s sql.DBStats) {
		recorded.Add(1)
		lastInUse.Store(int32(s.InUse))
	}, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if n := recorded.Load(); n < 3 {
		t.Errorf("recorded %d samples, want at least 3", n)
	}
	if lastInUse.Load() != pool.inUse.Load() {
		t.Errorf("last sample %d does not match source %d", lastInUse.Load(), pool.inUse.Load())
	}
}

func TestPoolStatsService_DefaultInterval(t *testing.T) {
	t.Parallel()

	svc := NewPoolStatsService(&fakePool{}, func(sql.DBStats) {}, 0)
	if svc.interval != defaultPoolStatsInterval {
		t.Errorf("interval = %v, want %v", svc.interval, defaultPoolStatsInterval)
	}
}
