// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

//go:build !nats

package eventprocessor

import "github.com/ThreeDotsLabs/watermill"

func newNATSTransport(_ natsSettings, _ watermill.LoggerAdapter) (*Transport, error) {
	return nil, ErrNATSNotAvailable
}
