// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

// Package testinfra starts throwaway containers for integration tests.
//
// It uses testcontainers-go and is compiled only with the integration build
// tag:
//
//	go test -tags integration ./...
//	go test -tags "integration nats" ./internal/eventprocessor/...
//
// # Postgres
//
// NewPostgresContainer starts an empty database. Tests bootstrap the schema
// through database.DB.BootstrapSchema and run the same query suite the
// DuckDB unit tests use, so placeholder numbering and dialect differences
// are caught against the production engine.
//
// # NATS
//
// NewNATSContainer starts a JetStream-enabled server for the profile view
// transport built with the nats tag.
//
// Tests skip when Docker is unavailable (SkipIfNoDocker) and register
// CleanupContainer with t.Cleanup.
package testinfra
