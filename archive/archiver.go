// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package archive

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

// maxNameAttempts bounds retries when a generated name is already taken.
const maxNameAttempts = 5

// Archiver writes, lists, and removes result artifacts.
type Archiver struct {
	results store.ResultStore
	now     func() time.Time

	mu   sync.Mutex
	last time.Time
}

func New(results store.ResultStore) *Archiver {
	return &Archiver{results: results, now: time.Now}
}

// stamp returns a millisecond timestamp strictly later than any previous one
// from this Archiver.
func (a *Archiver) stamp() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()

	t := a.now().UTC().Truncate(time.Millisecond)
	if !t.After(a.last) {
		t = a.last.Add(time.Millisecond)
	}
	a.last = t
	return t
}

// Archive stores a snapshot of poll and returns the artifact name. Existing
// artifacts are never overwritten.
func (a *Archiver) Archive(ctx context.Context, poll models.Poll, reason string) (string, error) {
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		at := a.stamp()
		body, err := json.MarshalIndent(NewSnapshot(poll, reason, at), "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode snapshot: %w", err)
		}

		name := Name(poll.ID, poll.Title, at)
		err = a.results.CreateResult(ctx, poll.Owner, name, body)
		if err == nil {
			log.Info().
				Str("owner", poll.Owner).
				Str("poll_id", poll.ID).
				Str("reason", reason).
				Str("file", name).
				Msg("Archived poll results")
			return name, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return "", fmt.Errorf("archive poll %s: %w", poll.ID, err)
		}
	}
	return "", fmt.Errorf("archive poll %s: no free name after %d attempts: %w",
		poll.ID, maxNameAttempts, models.ErrConflict)
}

// List returns the owner's artifacts, newest first. Stored objects that are
// not artifact names are left out.
func (a *Archiver) List(ctx context.Context, owner string) ([]models.ResultFile, error) {
	entries, err := a.results.ListResults(ctx, owner)
	if err != nil {
		return nil, err
	}

	now := a.now()
	files := make([]models.ResultFile, 0, len(entries))
	for _, e := range entries {
		p, err := ParseName(e.Name)
		if err != nil {
			log.Debug().Str("owner", owner).Str("file", e.Name).Msg("Ignoring unrecognized result file")
			continue
		}
		files = append(files, models.ResultFile{
			Name:      e.Name,
			PollID:    p.PollID,
			Slug:      p.Slug,
			CreatedAt: p.CreatedAt,
			Size:      e.Size,
			HumanSize: humanize.Bytes(uint64(max(e.Size, 0))),
			Age:       humanize.RelTime(p.CreatedAt, now, "ago", "from now"),
		})
	}

	slices.SortFunc(files, func(x, y models.ResultFile) int {
		if c := y.CreatedAt.Compare(x.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(y.Name, x.Name)
	})
	return files, nil
}

func (a *Archiver) Get(ctx context.Context, owner, name string) ([]byte, error) {
	if _, err := ParseName(name); err != nil {
		return nil, err
	}
	return a.results.GetResult(ctx, owner, name)
}

func (a *Archiver) Delete(ctx context.Context, owner, name string) error {
	if _, err := ParseName(name); err != nil {
		return err
	}
	if err := a.results.DeleteResult(ctx, owner, name); err != nil {
		return err
	}
	log.Info().Str("owner", owner).Str("file", name).Msg("Deleted result file")
	return nil
}

// DeleteForPoll removes every artifact of pollID. It keeps going past
// individual failures and returns them joined.
func (a *Archiver) DeleteForPoll(ctx context.Context, owner, pollID string) (int, error) {
	entries, err := a.results.ListResults(ctx, owner)
	if err != nil {
		return 0, err
	}

	prefix := pollID + "-"
	removed := 0
	var errs []error
	for _, e := range entries {
		if !strings.HasPrefix(e.Name, prefix) {
			continue
		}
		err := a.results.DeleteResult(ctx, owner, e.Name)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, models.ErrNotFound):
			// Already gone.
		default:
			errs = append(errs, fmt.Errorf("delete %s: %w", e.Name, err))
		}
	}
	return removed, errors.Join(errs...)
}

// Live renders the poll's current tallies without storing them.
func (a *Archiver) Live(poll models.Poll) Snapshot {
	return NewSnapshot(poll, ReasonLive, a.now())
}

// Now is the clock the Archiver stamps artifacts with.
func (a *Archiver) Now() time.Time { return a.now() }
