// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - RateLimit, RateWindow: import requests per client (default: 5 per minute)
  - RosterLimit: voters loaded into the roster (default: 2000)

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	-rate-limit    Requests per window
	-rate-window   Window, e.g. 60s
	-roster-limit  Roster size
	-env           Env file (default .env, ignored when absent)

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	RATE_LIMIT    → -rate-limit
	RATE_WINDOW   → -rate-window (seconds or a duration)
	ROSTER_LIMIT  → -roster-limit

Variables in the env file fill in only what the environment leaves unset.
CLI flags take precedence over both.
*/
package cliparse
