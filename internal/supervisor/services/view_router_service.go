// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package services

import (
	"context"
	"errors"
	"fmt"
)

// RouterRunner runs a message router until ctx is canceled. Each call must
// build a fresh router, since a stopped watermill router cannot be reused.
//
// Satisfied by *eventprocessor.Pipeline.
type RouterRunner interface {
	RunRouter(ctx context.Context) error
}

// ViewRouterService consumes queued profile views under supervision.
// If the router exits on its own the error is returned and the supervisor
// starts a new one.
type ViewRouterService struct {
	runner RouterRunner
	name   string
}

// NewViewRouterService wraps runner.
//
//	pipeline, _ := eventprocessor.NewPipeline(cfg.Views, db)
//	tree.AddMessagingService(services.NewViewRouterService(pipeline))
func NewViewRouterService(runner RouterRunner) *ViewRouterService {
	return &ViewRouterService{
		runner: runner,
		name:   "view-router",
	}
}

// Serve implements suture.Service.
func (s *ViewRouterService) Serve(ctx context.Context) error {
	err := s.runner.RunRouter(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("router stopped unexpectedly")
	}
	return fmt.Errorf("view router: %w", err)
}

// String names the service in supervisor events.
func (s *ViewRouterService) String() string {
	return s.name
}
