// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the voter roster API server.

The server backs a campaign console: operators upload leader/voter
spreadsheets, review how they were read, save them, then browse, edit,
export and measure the consolidated roster.

# Starting the Server

The server reads CLI flags, an optional .env file and environment variables:

	DATABASE_URL=roster.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string or SQLite path

Optional settings:

  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - PORT (-p): Server port (default: 3318)
  - RATE_LIMIT, RATE_WINDOW: import requests per client per window (default 5 per minute)
  - ROSTER_LIMIT: voters loaded into the roster (default 2000)

# Architecture

  - ingest: encoding and delimiter probing, header reconciliation, CSV export
  - importer: import sessions and the save pipeline
  - roster: in-memory consolidated view, edits, statistics, worklist
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - auth: rate limiter and upload honeypot
  - db: PostgreSQL/SQLite store
  - cliparse: Configuration parsing
  - cmd/rosterctl: operator CLI

See package documentation for each component.
*/
package main
