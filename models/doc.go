// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain, request, response, and error types shared by
every other package.

# Domain Types

  - User: username and salted scrypt hash ("salt:hex")
  - Poll: titled, owned collection of questions; at most one active per owner
  - Question / Answer: position-assigned ids, per-answer vote counters
  - Vote: one tally mutation, optionally moving a previous choice
  - ResultFile: listing entry for an archived result artifact

Poll state is derived rather than stored:

	StateDraft    = "draft"    // never activated
	StateActive   = "active"   // open for voting
	StateInactive = "inactive" // activated before, now closed

# Request Types

  - PollInput: title and questions/answers text (ids assigned on save)
  - CheckUsernameRequest, RegisterRequest, LoginRequest
  - ChangePasswordRequest, ChangeUsernameRequest

# Response Types

  - UsernameStatus, SessionResponse, MeResponse
  - PollListResponse, ArchiveResponse, ResultListResponse
  - MessageResponse, ErrorResponse

# Errors

Sentinel errors are matched with errors.Is:

	ErrNotFound, ErrUnauthorized, ErrConflict, ErrInvalidPath,
	ErrNoActivePoll, ErrInvalidQuestion, ErrInvalidAnswer, ErrPollNotActive

ValidationError carries a caller-facing message; StorageError carries the
operation, owner, and poll id of an I/O failure and unwraps to the cause.

# Client Vote Records

Voters keep their last choice per question on their own device, keyed by poll
id and UpdatedAt. The server stores only aggregate counts, so these records are
a convenience and not a guarantee that each person votes once.
*/
package models
