// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

// Credentials stores one salted password hash per username.
type Credentials struct {
	store store.CredentialStore
}

func NewCredentials(s store.CredentialStore) *Credentials {
	return &Credentials{store: s}
}

func (c *Credentials) Exists(ctx context.Context, username string) (bool, error) {
	return c.store.UserExists(ctx, username)
}

// Create fails with models.ErrConflict if the username is taken.
func (c *Credentials) Create(ctx context.Context, username, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return c.store.CreateUser(ctx, models.User{Username: username, PasswordHash: hash})
}

// Verify returns models.ErrNotFound when no record exists and false when the
// password does not match.
func (c *Credentials) Verify(ctx context.Context, username, password string) (bool, error) {
	user, err := c.store.GetUser(ctx, username)
	if err != nil {
		return false, err
	}
	return VerifyPassword(password, user.PasswordHash), nil
}

func (c *Credentials) UpdatePassword(ctx context.Context, username, password string) error {
	user, err := c.store.GetUser(ctx, username)
	if err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.Username = username
	user.PasswordHash = hash
	return c.store.UpdateUser(ctx, user)
}

// Rename relocates everything stored under oldName and rewrites the record's
// username. Poll documents are left for the caller to re-key.
func (c *Credentials) Rename(ctx context.Context, oldName, newName string) error {
	if err := c.store.RenameOwner(ctx, oldName, newName); err != nil {
		return err
	}
	user, err := c.store.GetUser(ctx, newName)
	if err != nil {
		return c.undoRename(ctx, oldName, newName, fmt.Errorf("read renamed user: %w", err))
	}
	user.Username = newName
	if err := c.store.UpdateUser(ctx, user); err != nil {
		return c.undoRename(ctx, oldName, newName, fmt.Errorf("rewrite renamed user: %w", err))
	}
	return nil
}

// undoRename moves newName's subtree back to oldName after a failed rename.
func (c *Credentials) undoRename(ctx context.Context, oldName, newName string, cause error) error {
	if err := c.store.RenameOwner(ctx, newName, oldName); err != nil {
		return errors.Join(cause, fmt.Errorf("roll back rename to %s: %w", oldName, err))
	}
	return cause
}
