// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package eventprocessor

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/roomscope/internal/config"
	"github.com/tomtom215/roomscope/internal/logging"
)

const viewHandlerName = "profile_view_inserter"

// Pipeline owns the transport, the recorder in front of it and the consumer
// behind it.
type Pipeline struct {
	cfg       config.ViewsConfig
	logger    watermill.LoggerAdapter
	transport *Transport
	recorder  *Recorder
	consumer  *ViewConsumer
}

// NewPipeline wires a recorder and consumer around the configured transport.
func NewPipeline(cfg config.ViewsConfig, store ViewStore) (*Pipeline, error) {
	logger := logging.NewWatermillAdapter("views")
	transport, err := NewTransport(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:       cfg,
		logger:    logger,
		transport: transport,
		recorder:  NewRecorder(transport.Publisher, cfg),
		consumer:  NewViewConsumer(store, NewCircuitBreaker(BreakerConfigFrom(cfg)), cfg.InsertTimeout),
	}, nil
}

// Recorder returns the submission side.
func (p *Pipeline) Recorder() *Recorder {
	return p.recorder
}

// TransportName returns "memory" or "nats".
func (p *Pipeline) TransportName() string {
	return p.transport.Name
}

// RunRouter builds a fresh router on every call and blocks until ctx is
// canceled, so a supervisor may restart it after a failure.
func (p *Pipeline) RunRouter(ctx context.Context) error {
	router, err := NewRouter(RouterConfigFrom(p.cfg), p.logger)
	if err != nil {
		return err
	}
	router.AddConsumerHandler(viewHandlerName, p.recorder.Topic(), p.transport.Subscriber, p.consumer.Handle)

	logging.Info().
		Str("transport", p.transport.Name).
		Str("topic", p.recorder.Topic()).
		Msg("profile view router starting")

	err = router.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close stops submissions and closes the transport.
func (p *Pipeline) Close() error {
	_ = p.recorder.Close()
	return p.transport.Close()
}
