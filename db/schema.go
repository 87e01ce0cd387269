// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed by the SQL storage backend.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The statements are restricted to syntax shared by PostgreSQL and SQLite.
const schema = `
-- Accounts
CREATE TABLE IF NOT EXISTS account (
    username TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Poll documents, stored whole as JSON
CREATE TABLE IF NOT EXISTS poll_document (
    owner TEXT NOT NULL,
    id TEXT NOT NULL,
    body TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (owner, id)
);

CREATE INDEX IF NOT EXISTS idx_poll_document_owner ON poll_document(owner);

-- Archived result artifacts
CREATE TABLE IF NOT EXISTS result_artifact (
    owner TEXT NOT NULL,
    name TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (owner, name)
);

CREATE INDEX IF NOT EXISTS idx_result_artifact_owner ON result_artifact(owner);
`
