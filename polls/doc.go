// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements the poll lifecycle, vote tallying, and owner renames.

# Lifecycle

A poll is a draft until first activated, active while it accepts votes, and
inactive afterwards. Manager enforces:

  - at most one active poll per owner
  - a poll leaving the active state is archived with reason "ended" first
  - an archive failure aborts the transition
  - Update resets vote counts and reassigns positional ids
  - Delete archives an active poll, removes it, then removes its artifacts
    except that final one

# Voting

	poll, err := manager.CastVote(ctx, owner, models.Vote{
		QuestionID:       0,
		AnswerID:         2,
		PreviousAnswerID: &prev, // nil for a first vote
	})

Moving a vote takes one from the previous answer only if it has one to give.
Voting for the answer already chosen changes nothing.

# Concurrency

Manager and Migrator share a Locks table keyed by owner. Every mutation of
an owner's polls, including each vote, runs while holding that key; owners
never wait on each other. A rename holds both the old and the new key.
*/
package polls
