// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

/*
Package services adapts Roomscope's long-running components to suture.Service.

Each wrapper turns a component's own lifecycle into Serve(ctx) error, which
blocks until ctx is canceled and returns an error when the component dies so
the supervisor can restart it:

  - HTTPServerService: ListenAndServe / Shutdown of the API server
  - ViewRouterService: the watermill router that stores profile views
  - PoolStatsService: periodic database pool gauges for Prometheus

Every wrapper implements fmt.Stringer; suture uses the name in its events.
*/
package services
