// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package services

import (
	"context"
	"database/sql"
	"time"
)

// defaultPoolStatsInterval is how often pool gauges are refreshed.
const defaultPoolStatsInterval = 15 * time.Second

// PoolStatsSource exposes connection pool counters. Satisfied by *database.DB.
type PoolStatsSource interface {
	Stats() sql.DBStats
}

// PoolStatsService periodically publishes connection pool gauges.
type PoolStatsService struct {
	source   PoolStatsSource
	record   func(sql.DBStats)
	interval time.Duration
	name     string
}

// NewPoolStatsService samples source every interval and passes the
// counters to record, typically metrics.RecordPoolStats.
func NewPoolStatsService(source PoolStatsSource, record func(sql.DBStats), interval time.Duration) *PoolStatsService {
	if interval <= 0 {
		interval = defaultPoolStatsInterval
	}
	return &PoolStatsService{
		source:   source,
		record:   record,
		interval: interval,
		name:     "db-pool-stats",
	}
}

// Serve implements suture.Service. It records once immediately, then on
// every tick until ctx is canceled.
func (s *PoolStatsService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.record(s.source.Stats())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.record(s.source.Stats())
		}
	}
}

// String names the service in supervisor events.
func (s *PoolStatsService) String() string {
	return s.name
}
