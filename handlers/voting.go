// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/polls"
)

// VotingHandler serves the public voter page. Voters are anonymous; the
// previous answer a client reports is trusted as-is.
type VotingHandler struct {
	manager *polls.Manager
	ipSalt  string
}

func NewVotingHandler(manager *polls.Manager, ipSalt string) *VotingHandler {
	return &VotingHandler{manager: manager, ipSalt: ipSalt}
}

// GetActivePoll handles GET /p/{username}
func (h *VotingHandler) GetActivePoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.manager.Active(r.Context(), r.PathValue("username"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll)
}

// CastVote handles POST /p/{username}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.Vote
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	owner := r.PathValue("username")
	poll, err := h.manager.CastVote(r.Context(), owner, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	log.Debug().
		Str("owner", owner).
		Str("poll_id", poll.ID).
		Str("ip_hash", auth.HashIP(middleware.GetClientIP(r), h.ipSalt)).
		Str("user_agent", r.UserAgent()).
		Msg("Vote accepted")

	middleware.JSONResponse(w, http.StatusOK, poll)
}
