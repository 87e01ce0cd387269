// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/livepoll/models"
)

// SQLStore keeps the same documents as FileStore in the tables created by
// db.CreateSchema. Queries use $N placeholders, which both lib/pq and
// modernc.org/sqlite accept.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an open connection whose schema is already in place.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Close() error { return s.db.Close() }

// Credentials

func (s *SQLStore) UserExists(ctx context.Context, username string) (bool, error) {
	if err := ValidateOwner(username); err != nil {
		return false, err
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM account WHERE username = $1`, username).Scan(&n)
	if err != nil {
		return false, &models.StorageError{Op: "query user", Owner: username, Err: err}
	}
	return n > 0, nil
}

func (s *SQLStore) GetUser(ctx context.Context, username string) (models.User, error) {
	if err := ValidateOwner(username); err != nil {
		return models.User{}, err
	}
	var user models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT username, password_hash FROM account WHERE username = $1`, username,
	).Scan(&user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %s: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return models.User{}, &models.StorageError{Op: "query user", Owner: username, Err: err}
	}
	return user, nil
}

func (s *SQLStore) CreateUser(ctx context.Context, user models.User) error {
	if err := ValidateOwner(user.Username); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO account (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING
	`, user.Username, user.PasswordHash, time.Now().UTC())
	if err != nil {
		return &models.StorageError{Op: "insert user", Owner: user.Username, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", user.Username, models.ErrConflict)
	}
	return nil
}

func (s *SQLStore) UpdateUser(ctx context.Context, user models.User) error {
	if err := ValidateOwner(user.Username); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE account SET password_hash = $1 WHERE username = $2`,
		user.PasswordHash, user.Username)
	if err != nil {
		return &models.StorageError{Op: "update user", Owner: user.Username, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", user.Username, models.ErrNotFound)
	}
	return nil
}

func (s *SQLStore) RenameOwner(ctx context.Context, oldOwner, newOwner string) error {
	if err := ValidateOwner(oldOwner); err != nil {
		return err
	}
	if err := ValidateOwner(newOwner); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &models.StorageError{Op: "begin rename", Owner: oldOwner, Err: err}
	}
	defer tx.Rollback()

	var taken int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM account WHERE username = $1`, newOwner).Scan(&taken); err != nil {
		return &models.StorageError{Op: "query user", Owner: newOwner, Err: err}
	}
	if taken > 0 {
		return fmt.Errorf("user %s: %w", newOwner, models.ErrConflict)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE account SET username = $1 WHERE username = $2`, newOwner, oldOwner)
	if err != nil {
		return &models.StorageError{Op: "rename user", Owner: oldOwner, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", oldOwner, models.ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE poll_document SET owner = $1 WHERE owner = $2`, newOwner, oldOwner); err != nil {
		return &models.StorageError{Op: "rename polls", Owner: oldOwner, Err: err}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE result_artifact SET owner = $1 WHERE owner = $2`, newOwner, oldOwner); err != nil {
		return &models.StorageError{Op: "rename results", Owner: oldOwner, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &models.StorageError{Op: "commit rename", Owner: oldOwner, Err: err}
	}
	return nil
}

// Polls

func (s *SQLStore) ListPolls(ctx context.Context, owner string) ([]models.Poll, error) {
	if err := ValidateOwner(owner); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body FROM poll_document WHERE owner = $1`, owner)
	if err != nil {
		return nil, &models.StorageError{Op: "list polls", Owner: owner, Err: err}
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, &models.StorageError{Op: "scan poll", Owner: owner, Err: err}
		}
		var poll models.Poll
		if err := json.Unmarshal([]byte(body), &poll); err != nil || poll.ID != id {
			log.Warn().Err(err).Str("owner", owner).Str("poll_id", id).Msg("Skipping malformed poll")
			continue
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StorageError{Op: "list polls", Owner: owner, Err: err}
	}

	SortByTitle(polls)
	return polls, nil
}

func (s *SQLStore) GetPoll(ctx context.Context, owner, id string) (models.Poll, error) {
	if err := ValidateOwner(owner); err != nil {
		return models.Poll{}, err
	}
	if err := ValidatePollID(id); err != nil {
		return models.Poll{}, err
	}
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM poll_document WHERE owner = $1 AND id = $2`, owner, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, fmt.Errorf("poll %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Poll{}, &models.StorageError{Op: "query poll", Owner: owner, PollID: id, Err: err}
	}
	var poll models.Poll
	if err := json.Unmarshal([]byte(body), &poll); err != nil {
		return models.Poll{}, &models.StorageError{Op: "decode poll", Owner: owner, PollID: id, Err: err}
	}
	return poll, nil
}

func (s *SQLStore) SavePoll(ctx context.Context, poll models.Poll) error {
	if err := ValidateOwner(poll.Owner); err != nil {
		return err
	}
	if err := ValidatePollID(poll.ID); err != nil {
		return err
	}
	body, err := json.Marshal(poll)
	if err != nil {
		return fmt.Errorf("encode poll: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO poll_document (owner, id, body, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, poll.Owner, poll.ID, string(body), time.Now().UTC())
	if err != nil {
		return &models.StorageError{Op: "upsert poll", Owner: poll.Owner, PollID: poll.ID, Err: err}
	}
	return nil
}

func (s *SQLStore) DeletePoll(ctx context.Context, owner, id string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	if err := ValidatePollID(id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM poll_document WHERE owner = $1 AND id = $2`, owner, id)
	if err != nil {
		return &models.StorageError{Op: "delete poll", Owner: owner, PollID: id, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("poll %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// Results

func (s *SQLStore) CreateResult(ctx context.Context, owner, name string, body []byte) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	if err := ValidateResultName(name); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO result_artifact (owner, name, body, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner, name) DO NOTHING
	`, owner, name, string(body), time.Now().UTC())
	if err != nil {
		return &models.StorageError{Op: "insert result", Owner: owner, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("result %s: %w", name, models.ErrConflict)
	}
	return nil
}

func (s *SQLStore) GetResult(ctx context.Context, owner, name string) ([]byte, error) {
	if err := ValidateOwner(owner); err != nil {
		return nil, err
	}
	if err := ValidateResultName(name); err != nil {
		return nil, err
	}
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM result_artifact WHERE owner = $1 AND name = $2`, owner, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result %s: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return nil, &models.StorageError{Op: "query result", Owner: owner, Err: err}
	}
	return []byte(body), nil
}

func (s *SQLStore) ListResults(ctx context.Context, owner string) ([]ResultEntry, error) {
	if err := ValidateOwner(owner); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, LENGTH(body) FROM result_artifact WHERE owner = $1 ORDER BY name DESC`, owner)
	if err != nil {
		return nil, &models.StorageError{Op: "list results", Owner: owner, Err: err}
	}
	defer rows.Close()

	results := []ResultEntry{}
	for rows.Next() {
		var entry ResultEntry
		if err := rows.Scan(&entry.Name, &entry.Size); err != nil {
			return nil, &models.StorageError{Op: "scan result", Owner: owner, Err: err}
		}
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StorageError{Op: "list results", Owner: owner, Err: err}
	}
	return results, nil
}

func (s *SQLStore) DeleteResult(ctx context.Context, owner, name string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	if err := ValidateResultName(name); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM result_artifact WHERE owner = $1 AND name = $2`, owner, name)
	if err != nil {
		return &models.StorageError{Op: "delete result", Owner: owner, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("result %s: %w", name, models.ErrNotFound)
	}
	return nil
}
