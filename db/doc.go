// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores leaders and voters in PostgreSQL or SQLite.

# Connecting

Connect opens the database, pings it and creates the schema:

	store, err := db.Connect(ctx, db.TypePostgres, os.Getenv("DATABASE_URL"))

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes. The same DDL runs on both databases; queries are written
with ? placeholders and rebound to $N for PostgreSQL.

# Tables

  - leaders: unique full_name
  - voters: unique document_number, optional leader_id

	leaders 1──* voters

Deleting a leader clears leader_id on its voters (ON DELETE SET NULL).

# Store

Store is the persistence boundary the rest of the module depends on:

  - Ping: reachability and schema check
  - UpsertLeader: insert or find by full name
  - UpsertVoters: keyed by document number, one transaction, all or nothing
  - UpdateVoter: editable fields on one row
  - ListVoters: leader and search filters, newest first, limited

Empty optional values are stored as NULL and read back as "".
*/
package db
