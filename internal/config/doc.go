// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

/*
Package config loads and validates Roomscope configuration.

Configuration is layered with koanf: struct defaults, then an optional YAML
file (CONFIG_PATH, ./config.yaml, /etc/roomscope/config.yaml), then
environment variables. Environment names are mapped explicitly in
envMappings, so unrelated variables never leak into the config tree.

Example config.yaml:

	database:
	  driver: postgres
	  url: postgres://roomscope:secret@db:5432/roomscope?sslmode=require
	  max_open_conns: 20
	  acquire_timeout: 2s
	api:
	  cache_ttl: 30s
	views:
	  transport: memory

The equivalent environment form is DATABASE_DRIVER, DATABASE_URL,
DB_MAX_OPEN_CONNS, DB_ACQUIRE_TIMEOUT, CACHE_TTL and VIEWS_TRANSPORT.
*/
package config
