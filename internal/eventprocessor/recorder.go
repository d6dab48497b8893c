// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"golang.org/x/time/rate"

	"github.com/tomtom215/roomscope/internal/config"
	"github.com/tomtom215/roomscope/internal/logging"
	"github.com/tomtom215/roomscope/internal/metrics"
	"github.com/tomtom215/roomscope/internal/models"
)

// Recorder publishes profile views without waiting for them to be stored.
// It is safe for concurrent use.
type Recorder struct {
	publisher message.Publisher
	topic     string
	limiter   *rate.Limiter
	closed    atomic.Bool
}

// NewRecorder creates a recorder publishing to cfg.Topic. A non-positive
// MaxPerSecond disables the submission budget.
func NewRecorder(pub message.Publisher, cfg config.ViewsConfig) *Recorder {
	topic := cfg.Topic
	if topic == "" {
		topic = "profile_views"
	}
	limit := rate.Inf
	burst := 0
	if cfg.MaxPerSecond > 0 {
		limit = rate.Limit(cfg.MaxPerSecond)
		burst = int(cfg.MaxPerSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return &Recorder{
		publisher: pub,
		topic:     topic,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

// Topic returns the topic views are published on.
func (r *Recorder) Topic() string {
	return r.topic
}

// Submit queues one view. It returns once the message is handed to the
// transport; the insert happens later on the router.
func (r *Recorder) Submit(ctx context.Context, view models.ProfileView) error {
	if r.closed.Load() {
		metrics.ProfileViewsDropped.WithLabelValues("closed").Inc()
		return ErrRecorderClosed
	}
	if !r.limiter.Allow() {
		metrics.ProfileViewsDropped.WithLabelValues("rate_limited").Inc()
		return ErrRateLimited
	}

	event := NewProfileViewEvent(view)
	event.CorrelationID = logging.CorrelationIDFromContext(ctx)
	if event.CorrelationID == "" {
		event.CorrelationID = logging.RequestIDFromContext(ctx)
	}
	if err := event.Validate(); err != nil {
		metrics.ProfileViewsDropped.WithLabelValues("invalid").Inc()
		return err
	}

	msg, err := event.NewMessage()
	if err != nil {
		metrics.ProfileViewsDropped.WithLabelValues("encode").Inc()
		return err
	}
	if err := r.publisher.Publish(r.topic, msg); err != nil {
		metrics.ProfileViewsDropped.WithLabelValues("publish").Inc()
		return fmt.Errorf("publish profile view: %w", err)
	}
	metrics.ProfileViewsQueued.Inc()
	return nil
}

// Close stops accepting submissions. The transport is closed by its owner.
func (r *Recorder) Close() error {
	r.closed.Store(true)
	return nil
}

// IsDropped reports whether err is one of the expected submission refusals
// rather than a transport fault.
func IsDropped(err error) bool {
	return errors.Is(err, ErrRecorderClosed) || errors.Is(err, ErrRateLimited)
}
