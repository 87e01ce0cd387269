// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the SQL storage backend.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal().Err(err).Msg("schema creation failed")
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).

# Tables

  - account: one row per username with its scrypt hash
  - poll_document: (owner, id) to the poll JSON document
  - result_artifact: (owner, name) to an immutable archived snapshot

Rows are scoped by owner rather than linked by foreign keys, so renaming an
owner is three UPDATE statements inside one transaction.
*/
package db
