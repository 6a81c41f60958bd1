// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

/*
Package supervisor provides process supervision for Inkfeed using suture v4.

This package implements a hierarchical supervisor tree that manages the
lifecycle of all long-running services in the application. It provides
Erlang/OTP-style supervision with automatic restart, failure isolation,
and graceful shutdown.

The tree organizes services into two layers:

	RootSupervisor ("inkfeed")
	├── DataSupervisor ("data-layer")
	│   └── CacheGCService (if the response cache is on disk)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the cache maintenance loop never takes down the API layer,
and each layer restarts independently with exponential backoff.

Supervisor events (starts, stops, failures, restarts) are logged through
an slog-backed event hook via the sutureslog adapter.
*/
package supervisor
