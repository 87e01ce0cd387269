// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

// SubtreeRenamer relocates everything stored under one owner to another.
// auth.Credentials satisfies it.
type SubtreeRenamer interface {
	Rename(ctx context.Context, oldName, newName string) error
}

// Migrator re-keys an owner's data under a new username.
type Migrator struct {
	renamer SubtreeRenamer
	polls   store.PollStore
	locks   *Locks
}

// NewMigrator must share locks with the Manager so a rename cannot interleave
// with votes or lifecycle changes.
func NewMigrator(renamer SubtreeRenamer, polls store.PollStore, locks *Locks) *Migrator {
	return &Migrator{renamer: renamer, polls: polls, locks: locks}
}

// RenameOwner moves the credential record, polls, and results, then rewrites
// the Owner field of every poll now stored under newOwner. If any step after
// the move fails, the data is moved back under oldOwner.
func (m *Migrator) RenameOwner(ctx context.Context, oldOwner, newOwner string) error {
	unlock := m.locks.LockAll(oldOwner, newOwner)
	defer unlock()

	if err := m.renamer.Rename(ctx, oldOwner, newOwner); err != nil {
		return err
	}

	polls, err := m.polls.ListPolls(ctx, newOwner)
	if err != nil {
		m.rollback(ctx, oldOwner, newOwner, nil)
		return fmt.Errorf("list renamed polls: %w", err)
	}
	var rekeyed []models.Poll
	for _, p := range polls {
		if p.Owner == newOwner {
			continue
		}
		p.Owner = newOwner
		if err := m.polls.SavePoll(ctx, p); err != nil {
			m.rollback(ctx, oldOwner, newOwner, rekeyed)
			return fmt.Errorf("re-key poll %s: %w", p.ID, err)
		}
		rekeyed = append(rekeyed, p)
	}

	log.Info().Str("from", oldOwner).Str("to", newOwner).Int("polls", len(polls)).Msg("Owner renamed")
	return nil
}

// rollback moves newOwner's subtree back and restores the Owner field of the
// polls that were already re-keyed. Failures are logged; the caller reports
// the error that triggered it.
func (m *Migrator) rollback(ctx context.Context, oldOwner, newOwner string, rekeyed []models.Poll) {
	if err := m.renamer.Rename(ctx, newOwner, oldOwner); err != nil {
		log.Error().Err(err).Str("from", oldOwner).Str("to", newOwner).Msg("Rename rollback failed")
		return
	}
	for _, p := range rekeyed {
		p.Owner = oldOwner
		if err := m.polls.SavePoll(ctx, p); err != nil {
			log.Error().Err(err).Str("owner", oldOwner).Str("poll_id", p.ID).Msg("Could not restore poll owner")
		}
	}
	log.Warn().Str("from", oldOwner).Str("to", newOwner).Int("polls", len(rekeyed)).Msg("Owner rename rolled back")
}
