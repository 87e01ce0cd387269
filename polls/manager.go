// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/livepoll/archive"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

// ResultArchiver is the part of archive.Archiver the lifecycle depends on.
type ResultArchiver interface {
	Archive(ctx context.Context, poll models.Poll, reason string) (string, error)
	DeleteForPoll(ctx context.Context, owner, pollID string) (int, error)
}

type Options struct {
	// AutoActivateFirstPoll makes an owner's first poll active on creation.
	AutoActivateFirstPoll bool
}

// Manager owns the poll lifecycle. Every mutation for an owner runs under
// that owner's lock, which keeps at most one poll active per owner.
type Manager struct {
	polls             store.PollStore
	archiver          ResultArchiver
	locks             *Locks
	autoActivateFirst bool
	now               func() time.Time
}

func NewManager(polls store.PollStore, archiver ResultArchiver, locks *Locks, opts Options) *Manager {
	if locks == nil {
		locks = NewLocks()
	}
	return &Manager{
		polls:             polls,
		archiver:          archiver,
		locks:             locks,
		autoActivateFirst: opts.AutoActivateFirstPoll,
		now:               time.Now,
	}
}

func (m *Manager) List(ctx context.Context, owner string) ([]models.Poll, error) {
	return m.polls.ListPolls(ctx, owner)
}

func (m *Manager) Get(ctx context.Context, owner, id string) (models.Poll, error) {
	return m.loadOwned(ctx, owner, id)
}

// Active returns the owner's active poll or models.ErrNoActivePoll.
func (m *Manager) Active(ctx context.Context, owner string) (models.Poll, error) {
	return m.activeLocked(ctx, owner)
}

func (m *Manager) Create(ctx context.Context, owner string, input models.PollInput) (models.Poll, error) {
	title, questions, err := buildQuestions(input)
	if err != nil {
		return models.Poll{}, err
	}
	if err := store.ValidateOwner(owner); err != nil {
		return models.Poll{}, err
	}

	unlock := m.locks.Lock(owner)
	defer unlock()

	now := m.now().UTC()
	poll := models.Poll{
		ID:        uuid.NewString(),
		Title:     title,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
		Questions: questions,
	}

	if m.autoActivateFirst {
		existing, err := m.polls.ListPolls(ctx, owner)
		if err != nil {
			return models.Poll{}, err
		}
		if len(existing) == 0 {
			poll.IsActive = true
			poll.ActivatedAt = &now
		}
	}

	if err := m.polls.SavePoll(ctx, poll); err != nil {
		return models.Poll{}, err
	}
	log.Info().Str("owner", owner).Str("poll_id", poll.ID).Bool("active", poll.IsActive).Msg("Poll created")
	return poll, nil
}

// Update replaces the poll's title and questions. Vote counts start over
// because the answers may no longer mean the same thing.
func (m *Manager) Update(ctx context.Context, owner, id string, input models.PollInput) (models.Poll, error) {
	title, questions, err := buildQuestions(input)
	if err != nil {
		return models.Poll{}, err
	}

	unlock := m.locks.Lock(owner)
	defer unlock()

	poll, err := m.loadOwned(ctx, owner, id)
	if err != nil {
		return models.Poll{}, err
	}
	poll.Title = title
	poll.Questions = questions
	poll.UpdatedAt = m.now().UTC()

	if err := m.polls.SavePoll(ctx, poll); err != nil {
		return models.Poll{}, err
	}
	log.Info().Str("owner", owner).Str("poll_id", id).Msg("Poll updated")
	return poll, nil
}

// Save creates a poll when id is empty and updates it otherwise.
func (m *Manager) Save(ctx context.Context, owner, id string, input models.PollInput) (models.Poll, error) {
	if id == "" {
		return m.Create(ctx, owner, input)
	}
	return m.Update(ctx, owner, id, input)
}

// Activate makes id the owner's only active poll. Any other active poll is
// archived and switched off first; if that fails the target is untouched.
// Vote counts carry over when a poll is re-activated.
func (m *Manager) Activate(ctx context.Context, owner, id string) (models.Poll, error) {
	unlock := m.locks.Lock(owner)
	defer unlock()

	target, err := m.loadOwned(ctx, owner, id)
	if err != nil {
		return models.Poll{}, err
	}

	all, err := m.polls.ListPolls(ctx, owner)
	if err != nil {
		return models.Poll{}, err
	}
	for _, p := range all {
		if p.ID == id || !p.IsActive {
			continue
		}
		if err := m.endLocked(ctx, p); err != nil {
			return models.Poll{}, fmt.Errorf("deactivate previous poll %s: %w", p.ID, err)
		}
	}

	if target.IsActive {
		return target, nil
	}
	from := target.State()
	now := m.now().UTC()
	target.IsActive = true
	target.ActivatedAt = &now
	if err := m.polls.SavePoll(ctx, target); err != nil {
		return models.Poll{}, err
	}
	log.Info().Str("owner", owner).Str("poll_id", id).Str("from", from).Msg("Poll activated")
	return target, nil
}

// Deactivate archives and closes the active poll. Any other poll yields
// models.ErrPollNotActive.
func (m *Manager) Deactivate(ctx context.Context, owner, id string) (models.Poll, error) {
	unlock := m.locks.Lock(owner)
	defer unlock()

	poll, err := m.loadOwned(ctx, owner, id)
	if err != nil {
		return models.Poll{}, err
	}
	if !poll.IsActive {
		return models.Poll{}, fmt.Errorf("poll %s: %w", id, models.ErrPollNotActive)
	}
	if err := m.endLocked(ctx, poll); err != nil {
		return models.Poll{}, err
	}
	poll.IsActive = false
	log.Info().Str("owner", owner).Str("poll_id", id).Msg("Poll deactivated")
	return poll, nil
}

// Delete removes the poll and every artifact named after it. An active
// poll is archived as ended before it goes.
func (m *Manager) Delete(ctx context.Context, owner, id string) error {
	unlock := m.locks.Lock(owner)
	defer unlock()

	poll, err := m.loadOwned(ctx, owner, id)
	if err != nil {
		return err
	}

	if poll.IsActive {
		if _, err := m.archiver.Archive(ctx, poll, archive.ReasonEnded); err != nil {
			return err
		}
	}

	if err := m.polls.DeletePoll(ctx, owner, id); err != nil {
		return err
	}

	removed, err := m.archiver.DeleteForPoll(ctx, owner, id)
	if err != nil {
		log.Warn().Err(err).Str("owner", owner).Str("poll_id", id).Msg("Some result files could not be removed")
	}
	log.Info().Str("owner", owner).Str("poll_id", id).Int("results_removed", removed).Msg("Poll deleted")
	return nil
}

// Snapshot archives the active poll's current tallies without changing it.
func (m *Manager) Snapshot(ctx context.Context, owner string) (string, error) {
	unlock := m.locks.Lock(owner)
	defer unlock()

	poll, err := m.activeLocked(ctx, owner)
	if err != nil {
		return "", err
	}
	return m.archiver.Archive(ctx, poll, archive.ReasonUpdated)
}

// endLocked archives p and stores it inactive. Callers hold the owner lock.
func (m *Manager) endLocked(ctx context.Context, p models.Poll) error {
	if _, err := m.archiver.Archive(ctx, p, archive.ReasonEnded); err != nil {
		return err
	}
	p.IsActive = false
	return m.polls.SavePoll(ctx, p)
}

func (m *Manager) loadOwned(ctx context.Context, owner, id string) (models.Poll, error) {
	poll, err := m.polls.GetPoll(ctx, owner, id)
	if err != nil {
		return models.Poll{}, err
	}
	if poll.Owner != owner {
		return models.Poll{}, fmt.Errorf("poll %s: %w", id, models.ErrUnauthorized)
	}
	return poll, nil
}

func (m *Manager) activeLocked(ctx context.Context, owner string) (models.Poll, error) {
	all, err := m.polls.ListPolls(ctx, owner)
	if err != nil {
		return models.Poll{}, err
	}
	var active []models.Poll
	for _, p := range all {
		if p.IsActive {
			active = append(active, p)
		}
	}
	switch len(active) {
	case 0:
		return models.Poll{}, models.ErrNoActivePoll
	case 1:
	default:
		log.Warn().Str("owner", owner).Int("count", len(active)).Msg("More than one active poll")
	}
	return active[0], nil
}
