// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

/*
Package main is the entry point for the Roomscope server.

Roomscope serves read-mostly analytics over voice room presence data: user
and room lookups, session history, overlap ("shared rooms") queries, room
timelines and snapshots, trending rooms, leaderboards and aggregate stats.
The only write is profile view recording, which is queued and stored
asynchronously.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("roomscope")
	├── DataSupervisor ("data-layer")
	│   └── db-pool-stats (connection pool gauges)
	├── MessagingSupervisor ("messaging-layer")
	│   └── view-router (stores queued profile views)
	└── APISupervisor ("api-layer")
	    └── http-server

Initialization order:

 1. Configuration: Koanf v2 (defaults, optional config.yaml, environment)
 2. Logging: zerolog, bridged to slog for the supervisor
 3. Database: Postgres through pgx, or embedded DuckDB for local runs
 4. View pipeline: watermill over gochannel, or NATS JetStream with -tags nats
 5. HTTP: chi router with CORS, rate limiting and Prometheus metrics
 6. Supervisor tree: runs until SIGINT or SIGTERM

# Configuration

Common environment variables:

	DATABASE_DRIVER        postgres | duckdb (default duckdb)
	DATABASE_URL           Postgres connection string
	DATABASE_PATH          DuckDB file, empty for in-memory
	DATABASE_SEED_MOCK_DATA  seed demo data (duckdb only)
	HTTP_HOST, HTTP_PORT   listen address (default 0.0.0.0:3000)
	CACHE_TTL              stats and leaderboard cache TTL, 0 disables
	RATE_LIMIT_REQUESTS    requests per RATE_LIMIT_WINDOW per client IP
	VIEWS_TRANSPORT        memory | nats
	NATS_URL               JetStream server for the nats transport
	LOG_LEVEL, LOG_FORMAT  zerolog level and json | console

CONFIG_PATH points at a YAML file using the same keys as the koanf tags in
internal/config.

# Build Tags

	go build ./cmd/server               # in-process view queue
	go build -tags nats ./cmd/server    # adds the NATS JetStream transport

# Example Usage

Local run against an in-memory DuckDB with demo data:

	export DATABASE_SEED_MOCK_DATA=true
	export LOG_FORMAT=console
	./roomscope

Production against Postgres:

	export DATABASE_DRIVER=postgres
	export DATABASE_URL=postgres://roomscope:secret@db:5432/roomscope?sslmode=require
	export VIEWS_TRANSPORT=nats
	export NATS_URL=nats://nats:4222
	./roomscope

# Signal Handling

On SIGINT or SIGTERM the supervisor cancels every service: the HTTP server
drains in-flight requests, the view router stops, and main then closes the
pipeline, the response cache and the database pool in that order.
*/
package main
