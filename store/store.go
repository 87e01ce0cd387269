// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/danielhkuo/livepoll/models"
)

// CredentialStore persists one credential record per username and owns the
// relocation of an owner's whole namespace.
type CredentialStore interface {
	UserExists(ctx context.Context, username string) (bool, error)
	GetUser(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) error
	UpdateUser(ctx context.Context, user models.User) error
	// RenameOwner moves the credential record, polls, and results of oldOwner
	// under newOwner. Poll documents keep their Owner field; rewriting it is
	// the caller's job.
	RenameOwner(ctx context.Context, oldOwner, newOwner string) error
}

// PollStore holds poll documents keyed by (owner, poll id).
type PollStore interface {
	ListPolls(ctx context.Context, owner string) ([]models.Poll, error)
	GetPoll(ctx context.Context, owner, id string) (models.Poll, error)
	SavePoll(ctx context.Context, poll models.Poll) error
	DeletePoll(ctx context.Context, owner, id string) error
}

// ResultEntry is a stored artifact as seen by a listing.
type ResultEntry struct {
	Name string
	Size int64
}

// ResultStore holds immutable result artifacts keyed by (owner, name).
type ResultStore interface {
	// CreateResult never overwrites: an existing name yields models.ErrConflict.
	CreateResult(ctx context.Context, owner, name string, body []byte) error
	GetResult(ctx context.Context, owner, name string) ([]byte, error)
	ListResults(ctx context.Context, owner string) ([]ResultEntry, error)
	DeleteResult(ctx context.Context, owner, name string) error
}

// Backend is a complete storage implementation.
type Backend interface {
	CredentialStore
	PollStore
	ResultStore
	Close() error
}

// SortByTitle orders polls by title using a language-neutral collator, with
// the poll id as a tiebreak so the order is stable across calls.
func SortByTitle(polls []models.Poll) {
	c := collate.New(language.Und)
	slices.SortStableFunc(polls, func(a, b models.Poll) int {
		if r := c.CompareString(a.Title, b.Title); r != 0 {
			return r
		}
		return strings.Compare(a.ID, b.ID)
	})
}
