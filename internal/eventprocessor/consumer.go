// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package eventprocessor

import (
	"context"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/roomscope/internal/logging"
	"github.com/tomtom215/roomscope/internal/metrics"
	"github.com/tomtom215/roomscope/internal/models"
)

// ViewStore persists profile views. inserted is false for a duplicate id.
type ViewStore interface {
	InsertProfileView(ctx context.Context, v models.ProfileView) (inserted bool, err error)
}

// ViewConsumer turns queued events into rows.
type ViewConsumer struct {
	store         ViewStore
	breaker       *gobreaker.CircuitBreaker[interface{}]
	insertTimeout time.Duration
}

// NewViewConsumer creates a consumer. A nil breaker inserts unguarded.
func NewViewConsumer(store ViewStore, cb *gobreaker.CircuitBreaker[interface{}], insertTimeout time.Duration) *ViewConsumer {
	if insertTimeout <= 0 {
		insertTimeout = 5 * time.Second
	}
	return &ViewConsumer{
		store:         store,
		breaker:       cb,
		insertTimeout: insertTimeout,
	}
}

// Handle is a watermill NoPublishHandlerFunc. It always returns nil: a
// view that cannot be stored is logged, counted and acked.
func (c *ViewConsumer) Handle(msg *message.Message) error {
	event, err := DecodeProfileViewEvent(msg)
	if err != nil {
		metrics.ProfileViewFailures.WithLabelValues("decode").Inc()
		logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("discarding undecodable profile view")
		return nil
	}

	ctx := msg.Context()
	if event.CorrelationID != "" {
		ctx = logging.ContextWithCorrelationID(ctx, event.CorrelationID)
	}
	ctx, cancel := context.WithTimeout(ctx, c.insertTimeout)
	defer cancel()

	inserted, err := c.insert(ctx, event.View())
	switch {
	case err != nil:
		reason := failureReason(err)
		metrics.ProfileViewFailures.WithLabelValues(reason).Inc()
		logging.Ctx(ctx).Error().
			Err(err).
			Str("reason", reason).
			Str("view_id", event.EventID).
			Str("viewed_user_id", event.ViewedUserID).
			Msg("profile view not recorded")
	case !inserted:
		metrics.ProfileViewsDuplicate.Inc()
		logging.Ctx(ctx).Debug().Str("view_id", event.EventID).Msg("duplicate profile view ignored")
	default:
		metrics.ProfileViewsRecorded.Inc()
	}
	return nil
}

func (c *ViewConsumer) insert(ctx context.Context, v models.ProfileView) (bool, error) {
	if c.breaker == nil {
		return c.store.InsertProfileView(ctx, v)
	}
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.store.InsertProfileView(ctx, v)
	})
	if err != nil {
		return false, err
	}
	inserted, _ := res.(bool)
	return inserted, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "storage"
	}
}
