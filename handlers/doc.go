// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the voter roster API.

# Handler Types

Each handler is a struct holding its dependencies:

  - ImportHandler: file upload, probing preview and save
  - VoterHandler: consolidated view, CSV export, field edits, refresh
  - StatsHandler: roster totals, per-leader and per-municipality counts
  - MissingHandler: missing-data worklist

Handlers share one db.Store and one *roster.Roster:

	importHandler := handlers.NewImportHandler(store, r, registry)
	voterHandler := handlers.NewVoterHandler(store, r)

# Import Flow

	POST /imports            → Create (multipart "file"; 201 preview or 422 diagnostics)
	GET  /imports/{id}       → Get
	POST /imports/{id}/save  → Save (502 store unreachable, 500 batch rejected)

Uploads with the honeypot field filled are rejected. A save runs to
completion even if the client disconnects.

# Roster

	GET   /voters?leader=&q=         → List
	GET   /voters/export?leader=&q=  → Export (semicolon-delimited CSV)
	PATCH /voters/{id}               → Update (rolled back if the write fails)
	POST  /voters/refresh            → Refresh

	GET  /stats, /stats/leaders, /stats/municipalities
	GET  /missing?filter=&leader=&q=
	POST /missing/refresh

Read endpoints load the roster on first use.
*/
package handlers
