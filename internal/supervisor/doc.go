// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

/*
Package supervisor provides process supervision for Roomscope using suture v4.

# Overview

Long-running components are grouped into layers so a failure in one does
not take the others down:

	RootSupervisor ("roomscope")
	├── DataSupervisor ("data-layer")
	│   └── PoolStatsService
	├── MessagingSupervisor ("messaging-layer")
	│   └── ViewRouterService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted with suture's backoff. Canceling the context
passed to Serve stops every layer, each service getting ShutdownTimeout to
return; UnstoppedServiceReport names any that did not.

Supervisor events (start, failure, backoff) are logged through sutureslog,
which writes to the slog logger returned by logging.NewSlogLogger and so
ends up in the same zerolog output as the rest of the process.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddDataService(services.NewPoolStatsService(db, metrics.RecordPoolStats, 0))
	tree.AddMessagingService(services.NewViewRouterService(pipeline))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return tree.Serve(ctx)
*/
package supervisor
