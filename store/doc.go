// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists credentials, poll documents, and result artifacts.

# Backends

Two implementations satisfy Backend:

  - FileStore: JSON files under a data directory and a results directory
  - SQLStore: the tables from db.CreateSchema, on SQLite or PostgreSQL

Open picks one from Options.Kind ("file", "sqlite", "postgres").

# Keys

Every owner, poll id, and result name is validated before it touches a path
or a query. Owners match [A-Za-z0-9_-]{1,64}, poll ids must be canonical
UUIDs, and result names must be plain .json file names. Anything else fails
with models.ErrInvalidPath.

# Guarantees

  - SavePoll replaces a document atomically
  - CreateUser and CreateResult never overwrite (models.ErrConflict)
  - ListPolls skips documents that fail to decode and logs a warning
  - ListPolls sorts by collated title, then id

The store does no locking of its own. Read-modify-write sequences are
serialized by the caller.
*/
package store
