// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/livepoll/archive"
	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

// flakyPolls fails the failOn-th SavePoll and passes every other call through.
type flakyPolls struct {
	store.PollStore
	calls  atomic.Int32
	failOn int32
}

func (s *flakyPolls) SavePoll(ctx context.Context, p models.Poll) error {
	if s.calls.Add(1) == s.failOn {
		return errors.New("disk full")
	}
	return s.PollStore.SavePoll(ctx, p)
}

func TestMigratorRenameOwner(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	creds := auth.NewCredentials(f.store)
	migrator := NewMigrator(creds, f.store, f.locks)

	if err := creds.Create(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Create(alice) error = %v", err)
	}
	if err := creds.Create(ctx, "carol", "secret1"); err != nil {
		t.Fatalf("Create(carol) error = %v", err)
	}
	a := mustCreate(t, f.manager, "alice", "A")
	mustCreate(t, f.manager, "alice", "B")
	if _, err := f.manager.Activate(ctx, "alice", a.ID); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if _, err := f.archiver.Archive(ctx, a, archive.ReasonUpdated); err != nil {
		t.Fatal(err)
	}

	if err := migrator.RenameOwner(ctx, "alice", "carol"); !errors.Is(err, models.ErrConflict) {
		t.Errorf("RenameOwner(taken) error = %v, want ErrConflict", err)
	}

	if err := migrator.RenameOwner(ctx, "alice", "bob"); err != nil {
		t.Fatalf("RenameOwner() error = %v", err)
	}

	polls, err := f.manager.List(ctx, "bob")
	if err != nil {
		t.Fatalf("List(bob) error = %v", err)
	}
	if len(polls) != 2 {
		t.Fatalf("List(bob) = %d polls, want 2", len(polls))
	}
	for _, p := range polls {
		if p.Owner != "bob" {
			t.Errorf("poll %s owner = %q, want bob", p.ID, p.Owner)
		}
	}

	// The renamed owner can keep operating on its polls.
	if _, err := f.manager.CastVote(ctx, "bob", models.Vote{QuestionID: 0, AnswerID: 0}); err != nil {
		t.Errorf("CastVote(bob) error = %v", err)
	}
	if _, err := f.manager.Deactivate(ctx, "bob", a.ID); err != nil {
		t.Errorf("Deactivate(bob) error = %v", err)
	}

	files, _ := f.archiver.List(ctx, "bob")
	if len(files) != 2 {
		t.Errorf("bob has %d artifacts, want 2 (moved + deactivation)", len(files))
	}
	if ok, _ := creds.Verify(ctx, "bob", "secret1"); !ok {
		t.Error("password does not verify under new name")
	}
	if left, _ := f.manager.List(ctx, "alice"); len(left) != 0 {
		t.Errorf("alice still has %d polls", len(left))
	}
}

func TestMigratorRenameRollsBack(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	creds := auth.NewCredentials(f.store)
	if err := creds.Create(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Create(alice) error = %v", err)
	}
	var ids []string
	for _, title := range []string{"A", "B", "C"} {
		ids = append(ids, mustCreate(t, f.manager, "alice", title).ID)
	}

	flaky := &flakyPolls{PollStore: f.store, failOn: 2}
	migrator := NewMigrator(creds, flaky, f.locks)
	if err := migrator.RenameOwner(ctx, "alice", "bob"); err == nil {
		t.Fatal("RenameOwner() succeeded despite a failed re-key")
	}

	if ok, _ := creds.Exists(ctx, "alice"); !ok {
		t.Error("alice is gone after a failed rename")
	}
	if ok, _ := creds.Exists(ctx, "bob"); ok {
		t.Error("bob exists after a failed rename")
	}
	if ok, _ := creds.Verify(ctx, "alice", "secret1"); !ok {
		t.Error("password does not verify after rollback")
	}

	polls, err := f.manager.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List(alice) error = %v", err)
	}
	if len(polls) != len(ids) {
		t.Fatalf("List(alice) = %d polls, want %d", len(polls), len(ids))
	}
	for _, p := range polls {
		if p.Owner != "alice" {
			t.Errorf("poll %s owner = %q, want alice", p.ID, p.Owner)
		}
	}
	for _, id := range ids {
		if _, err := f.manager.Get(ctx, "alice", id); err != nil {
			t.Errorf("Get(%s) error = %v", id, err)
		}
	}
	if left, _ := f.manager.List(ctx, "bob"); len(left) != 0 {
		t.Errorf("bob has %d polls after rollback", len(left))
	}
}
