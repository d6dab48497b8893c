// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package eventprocessor

import (
	"time"

	"github.com/tomtom215/roomscope/internal/config"
)

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // requests allowed in half-open state
	Interval         time.Duration // closed-state window for clearing counts
	Timeout          time.Duration // open-state duration before half-open
	FailureThreshold uint32        // consecutive failures that trip the breaker
}

// DefaultCircuitBreakerConfig returns production defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerConfigFrom derives the insert breaker settings from the views config.
func BreakerConfigFrom(cfg config.ViewsConfig) CircuitBreakerConfig {
	bc := DefaultCircuitBreakerConfig("profile_view_insert")
	if cfg.BreakerFailureThreshold > 0 {
		bc.FailureThreshold = cfg.BreakerFailureThreshold
	}
	if cfg.BreakerTimeout > 0 {
		bc.Timeout = cfg.BreakerTimeout
	}
	return bc
}

// RouterConfig holds configuration for the Watermill router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration
}

// DefaultRouterConfig returns production defaults for the router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{CloseTimeout: 10 * time.Second}
}

// RouterConfigFrom derives router settings from the views config.
func RouterConfigFrom(cfg config.ViewsConfig) RouterConfig {
	rc := DefaultRouterConfig()
	if cfg.RouterCloseTimeout > 0 {
		rc.CloseTimeout = cfg.RouterCloseTimeout
	}
	return rc
}

// natsSettings holds JetStream connection settings for the nats transport.
type natsSettings struct {
	URL           string
	Topic         string
	QueueGroup    string
	DurableName   string
	MaxReconnects int
	ReconnectWait time.Duration
	AckWait       time.Duration
	MaxDeliver    int
	CloseTimeout  time.Duration
}

func natsSettingsFrom(cfg config.ViewsConfig) natsSettings {
	return natsSettings{
		URL:           cfg.NATSURL,
		Topic:         cfg.Topic,
		QueueGroup:    "roomscope-views",
		DurableName:   "roomscope-views",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		AckWait:       30 * time.Second,
		MaxDeliver:    3,
		CloseTimeout:  RouterConfigFrom(cfg).CloseTimeout,
	}
}
