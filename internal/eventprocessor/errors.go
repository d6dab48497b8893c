// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package eventprocessor

import "errors"

var (
	// ErrRecorderClosed is returned by Submit after Close.
	ErrRecorderClosed = errors.New("recorder is closed")

	// ErrRateLimited is returned by Submit when the per-second budget is spent.
	ErrRateLimited = errors.New("profile view rate budget exceeded")

	// ErrNATSNotAvailable is returned for the nats transport in builds
	// without the nats tag.
	ErrNATSNotAvailable = errors.New("nats transport not available: build with -tags nats")

	// ErrInvalidEvent marks a payload that cannot become a profile view.
	ErrInvalidEvent = errors.New("invalid profile view event")
)
