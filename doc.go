// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the livepoll API server.

livepoll is a multi-tenant live polling service. Each registered owner keeps
any number of polls and runs at most one of them at a time; voters reach the
active poll at /p/{username} and vote anonymously. Ending, switching or
deleting a poll archives its tallies as a JSON result file.

# Starting the Server

	SESSION_SECRET=change-me go run .

Or with flags:

	go run . -p 3318 -t sqlite -d data/livepoll.db --session-secret change-me

A .env file in the working directory is loaded first.

# Configuration

Required settings:

  - SESSION_SECRET (--session-secret): HMAC key for session tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - STORAGE (-t): file, sqlite or postgres (default: file)
  - DATA_DIR, RESULTS_DIR: directories for the file backend
  - DATABASE_URL (-d): SQLite path or PostgreSQL URL
  - SESSION_TTL: token lifetime (default: 24h)
  - AUTO_ACTIVATE_FIRST_POLL: activate an owner's first poll on creation
  - LOG_LEVEL, LOG_FILE: zerolog level and optional rotating log file
  - CONFIG (-c): YAML, JSON or TOML config file

# Architecture

  - handlers: HTTP request handlers (auth, polls, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Sessions, error mapping, CORS, logging, JSON helpers
  - auth: Credentials, session tokens, account flows
  - polls: Lifecycle, vote tallies, owner locks, renames
  - archive: Result snapshots and file naming
  - store: File and SQL storage backends
  - db: SQL schema
  - models: Domain, request and response types
  - logger, cliparse: Logging and configuration
*/
package main
