// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/livepoll/models"
)

// OwnerMigrator moves an owner's whole namespace to a new username.
type OwnerMigrator interface {
	RenameOwner(ctx context.Context, oldOwner, newOwner string) error
}

// Gateway implements the account flows on top of Credentials and Sessions.
type Gateway struct {
	creds    *Credentials
	sessions *Sessions
	migrator OwnerMigrator
}

func NewGateway(creds *Credentials, sessions *Sessions, migrator OwnerMigrator) *Gateway {
	return &Gateway{creds: creds, sessions: sessions, migrator: migrator}
}

var errBadLogin = fmt.Errorf("invalid username or password: %w", models.ErrUnauthorized)

// CheckUsername validates name and reports whether it is registered.
func (g *Gateway) CheckUsername(ctx context.Context, name string) (models.UsernameStatus, error) {
	name, err := ValidateUsername(name)
	if err != nil {
		return models.UsernameStatus{}, err
	}
	exists, err := g.creds.Exists(ctx, name)
	if err != nil {
		return models.UsernameStatus{}, err
	}
	return models.UsernameStatus{Username: name, Exists: exists}, nil
}

func (g *Gateway) Register(ctx context.Context, name, password, confirm string) (models.SessionResponse, error) {
	name, err := ValidateUsername(name)
	if err != nil {
		return models.SessionResponse{}, err
	}
	if err := checkNewPassword("password", password, confirm); err != nil {
		return models.SessionResponse{}, err
	}
	if err := g.creds.Create(ctx, name, password); err != nil {
		return models.SessionResponse{}, err
	}
	log.Info().Str("username", name).Msg("Account registered")
	return g.issue(name)
}

func (g *Gateway) Login(ctx context.Context, name, password string) (models.SessionResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return models.SessionResponse{}, models.NewValidationError("", "username and password are required")
	}
	if err := g.verify(ctx, name, password); err != nil {
		return models.SessionResponse{}, err
	}
	return g.issue(name)
}

// Authenticate resolves a session token to a username. Tokens for accounts
// that no longer exist (for example after a rename) are rejected.
func (g *Gateway) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("missing session: %w", models.ErrUnauthorized)
	}
	username, err := g.sessions.Parse(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	exists, err := g.creds.Exists(ctx, username)
	if errors.Is(err, models.ErrInvalidPath) {
		return "", fmt.Errorf("session subject %q: %w", username, models.ErrUnauthorized)
	}
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("session for unknown user %q: %w", username, models.ErrUnauthorized)
	}
	return username, nil
}

func (g *Gateway) ChangePassword(ctx context.Context, username, current, next, confirm string) error {
	if err := checkNewPassword("new_password", next, confirm); err != nil {
		return err
	}
	if err := g.verify(ctx, username, current); err != nil {
		return err
	}
	if err := g.creds.UpdatePassword(ctx, username, next); err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("Password changed")
	return nil
}

// ChangeUsername renames the account and everything it owns, then issues a
// session for the new name. Existing tokens for the old name stop working.
func (g *Gateway) ChangeUsername(ctx context.Context, username, newName, password string) (models.SessionResponse, error) {
	newName, err := ValidateUsername(newName)
	if err != nil {
		return models.SessionResponse{}, err
	}
	if newName == username {
		return models.SessionResponse{}, models.NewValidationError("new_username", "must differ from the current username")
	}
	if err := g.verify(ctx, username, password); err != nil {
		return models.SessionResponse{}, err
	}
	taken, err := g.creds.Exists(ctx, newName)
	if err != nil {
		return models.SessionResponse{}, err
	}
	if taken {
		return models.SessionResponse{}, fmt.Errorf("username %s: %w", newName, models.ErrConflict)
	}
	if err := g.migrator.RenameOwner(ctx, username, newName); err != nil {
		return models.SessionResponse{}, err
	}
	log.Info().Str("from", username).Str("to", newName).Msg("Username changed")
	return g.issue(newName)
}

func (g *Gateway) verify(ctx context.Context, username, password string) error {
	ok, err := g.creds.Verify(ctx, username, password)
	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidPath) {
		return errBadLogin
	}
	if err != nil {
		return err
	}
	if !ok {
		return errBadLogin
	}
	return nil
}

func (g *Gateway) issue(username string) (models.SessionResponse, error) {
	token, err := g.sessions.Issue(username)
	if err != nil {
		return models.SessionResponse{}, err
	}
	return models.SessionResponse{Username: username, Token: token}, nil
}

func checkNewPassword(field, password, confirm string) error {
	if len(password) < MinPasswordLength {
		return models.NewValidationError(field, "must be at least %d characters", MinPasswordLength)
	}
	if password != confirm {
		return models.NewValidationError("confirm_password", "passwords do not match")
	}
	return nil
}
