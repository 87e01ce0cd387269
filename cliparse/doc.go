// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values come from, highest precedence first: flags, environment variables,
the optional config file, then defaults.

# CLI Flags and Environment Variables

	-p, --port                    PORT                      (default 3318)
	-t, --storage                 STORAGE                   file | sqlite | postgres
	    --data-dir                DATA_DIR                  (default "data")
	    --results-dir             RESULTS_DIR               (default "results")
	-d, --database-url            DATABASE_URL              DSN or SQLite path
	    --session-secret          SESSION_SECRET            (required)
	    --session-ttl             SESSION_TTL               (default 24h)
	    --auto-activate-first-poll AUTO_ACTIVATE_FIRST_POLL (default false)
	    --log-level               LOG_LEVEL                 (default info)
	    --log-file                LOG_FILE                  rotated JSON log
	-c, --config                  CONFIG                    yaml, json or toml

A .env file in the working directory is loaded by main before parsing.

# Validation

ParseFlags returns an error if:

  - SESSION_SECRET is missing
  - storage is not one of file, sqlite, postgres
  - storage is postgres and no DATABASE_URL is given

For sqlite without a DATABASE_URL the database lives at <data-dir>/livepoll.db.
*/
package cliparse
