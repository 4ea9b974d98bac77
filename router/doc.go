// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the voter roster API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, r, cfg)

# Endpoints

Health:

	GET /health - 200 when the store answers, 503 otherwise

Imports (POST routes rate limited per client IP):

	POST /imports           - Upload and probe a file
	GET  /imports/{id}      - Session state and preview
	POST /imports/{id}/save - Persist leaders and voters

Roster:

	GET   /voters          - Consolidated view (?leader=, ?q=)
	GET   /voters/export   - CSV download of the same view
	PATCH /voters/{id}     - Edit contact or voting fields
	POST  /voters/refresh  - Reload from the store

Statistics:

	GET /stats
	GET /stats/leaders
	GET /stats/municipalities

Missing-data worklist:

	GET  /missing         - ?filter=all|phone|address|voting_post, ?leader=, ?q=
	POST /missing/refresh - Reload and recapture the worklist

# Shared State

The router owns the rate limiter and the import session registry. The
store and the roster are created by the caller and shared by all handlers.
*/
package router
