// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

/*
Package eventprocessor records profile views off the request path.

HTTP handlers hand a models.ProfileView to a Recorder, which serializes it
as a ProfileViewEvent and publishes it on a Watermill topic. A Watermill
router consumes the topic and inserts each view through a ViewStore guarded
by a circuit breaker. The handler never waits for the insert and never sees
its outcome.

# Transports

Two transports are available:

  - memory: a Watermill gochannel pub/sub inside the process (default)
  - nats: JetStream via watermill-nats, only with the nats build tag

Building without the nats tag leaves NewTransport returning
ErrNATSNotAvailable for the nats transport.

# Failure handling

Submission failures (closed recorder, rate budget exhausted, publish error)
are returned to the caller, which logs and drops them. Consumer failures are
logged and counted in roomscope_profile_view_failures_total, and the
message is acked anyway. A duplicate view_id is not a failure.

# Usage

	transport, err := eventprocessor.NewTransport(cfg, logger)
	recorder := eventprocessor.NewRecorder(transport.Publisher, cfg)
	router, err := eventprocessor.NewRouter(eventprocessor.RouterConfigFrom(cfg), logger)
	consumer := eventprocessor.NewViewConsumer(db, eventprocessor.NewCircuitBreaker(breakerCfg), cfg.InsertTimeout)
	router.AddConsumerHandler("profile_views", cfg.Topic, transport.Subscriber, consumer.Handle)
*/
package eventprocessor
