// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the livepoll API.

# Handler Types

  - AuthHandler: Registration, login, logout and account changes
  - PollHandler: Poll administration (create, edit, activate, delete)
  - VotingHandler: The public voter page and vote submission
  - ResultsHandler: Archived result files and live downloads

Handlers are thin: they decode the request, call into auth.Gateway,
polls.Manager or archive.Archiver, and hand errors to middleware.WriteError.

	pollHandler := handlers.NewPollHandler(manager)

# Sessions

Owner handlers read the owner from middleware.Username and must be mounted
behind middleware.RequireSession. Register, Login and ChangeUsername return
a token in the body and also set it as the session cookie.

# Poll Lifecycle

	POST /admin/polls                 → CreatePoll (draft)
	POST /admin/polls/{id}/activate   → ActivatePoll (ends any other active poll)
	POST /admin/polls/{id}/deactivate → DeactivatePoll (archives, then closes)
	DELETE /admin/polls/{id}          → DeletePoll

# Voting Flow

	GET  /p/{username}       → GetActivePoll
	POST /p/{username}/votes → CastVote

A vote may name the answer it replaces; that answer loses one vote.
*/
package handlers
