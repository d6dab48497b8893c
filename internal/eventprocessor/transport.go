// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package eventprocessor

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/roomscope/internal/config"
)

// Transport pairs the publisher the Recorder writes to with the subscriber
// the router reads from.
type Transport struct {
	Name       string
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

// NewTransport builds the transport selected by cfg.Transport.
func NewTransport(cfg config.ViewsConfig, logger watermill.LoggerAdapter) (*Transport, error) {
	switch cfg.Transport {
	case "", config.TransportMemory:
		return NewMemoryTransport(cfg.BufferSize, logger), nil
	case config.TransportNATS:
		return newNATSTransport(natsSettingsFrom(cfg), logger)
	default:
		return nil, fmt.Errorf("unknown view transport %q", cfg.Transport)
	}
}

// NewMemoryTransport returns an in-process gochannel transport. Messages
// published before a subscriber exists are dropped.
func NewMemoryTransport(buffer int64, logger watermill.LoggerAdapter) *Transport {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if buffer <= 0 {
		buffer = 1024
	}
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: buffer,
	}, logger)
	return &Transport{
		Name:       config.TransportMemory,
		Publisher:  pubSub,
		Subscriber: pubSub,
	}
}

// Close closes both sides. A gochannel is closed once.
func (t *Transport) Close() error {
	pubErr := t.Publisher.Close()
	if sameEndpoint(t.Publisher, t.Subscriber) {
		return pubErr
	}
	return errors.Join(pubErr, t.Subscriber.Close())
}

func sameEndpoint(p message.Publisher, s message.Subscriber) bool {
	ps, ok := p.(*gochannel.GoChannel)
	if !ok {
		return false
	}
	ss, ok := s.(*gochannel.GoChannel)
	return ok && ps == ss
}
