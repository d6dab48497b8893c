// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package database

import (
	"context"
	"time"

	"github.com/tomtom215/roomscope/internal/metrics"
	"github.com/tomtom215/roomscope/internal/models"
)

// InsertProfileView records one profile view. A duplicate view_id is not an
// error: it reports inserted == false and leaves the existing row alone.
func (db *DB) InsertProfileView(ctx context.Context, v models.ProfileView) (bool, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	viewedAt := v.ViewedAt
	if viewedAt.IsZero() {
		viewedAt = db.Now()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO profile_views (view_id, viewed_user_id, viewer_ip, viewer_user_agent, viewed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		v.ViewID,
		v.ViewedUserID,
		models.Truncate(v.ViewerIP, models.MaxViewerIPLength),
		models.Truncate(v.ViewerUserAgent, models.MaxViewerUserAgentLength),
		viewedAt.UTC(),
	)
	if IsDuplicate(err) {
		metrics.RecordDBQuery("insert_profile_view", "profile_views", time.Since(start), "", nil)
		return false, nil
	}
	if err != nil {
		return false, observe("insert_profile_view", "profile_views", start, err)
	}
	_ = observe("insert_profile_view", "profile_views", start, nil)
	return true, nil
}
