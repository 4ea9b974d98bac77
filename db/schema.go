// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The same DDL runs on PostgreSQL and SQLite
const schema = `
-- Leaders
CREATE TABLE IF NOT EXISTS leaders (
    id TEXT PRIMARY KEY,
    full_name TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);

-- Voters
CREATE TABLE IF NOT EXISTS voters (
    id TEXT PRIMARY KEY,
    leader_id TEXT REFERENCES leaders(id) ON DELETE SET NULL,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    document_number TEXT NOT NULL UNIQUE,
    phone TEXT,
    address TEXT,
    neighborhood TEXT,
    municipality TEXT,
    department TEXT,
    voting_post TEXT,
    voting_post_address TEXT,
    voting_table TEXT,
    voting_department TEXT,
    voting_municipality TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_voters_leader_id ON voters(leader_id);
CREATE INDEX IF NOT EXISTS idx_voters_created_at ON voters(created_at);
`
