// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/livepoll/db"
)

// Storage kinds accepted by Open.
const (
	KindFile     = "file"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Kind        string
	DataDir     string
	ResultsDir  string
	DatabaseURL string
}

// Open builds the backend named by opts.Kind. SQL backends are pinged and
// have their schema created before being returned.
func Open(opts Options) (Backend, error) {
	switch opts.Kind {
	case "", KindFile:
		return NewFileStore(opts.DataDir, opts.ResultsDir)
	case KindSQLite, KindPostgres:
		return openSQL(opts.Kind, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage kind %q", opts.Kind)
	}
}

func openSQL(driver, dsn string) (*SQLStore, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == KindSQLite {
		// A single connection keeps writers from tripping over SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	log.Info().Str("driver", driver).Msg("Database schema ready")
	return NewSQLStore(conn), nil
}
