// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/polls"
)

// PollHandler serves the owner's poll administration. Every route runs
// behind RequireSession, so the owner always comes from the session.
type PollHandler struct {
	manager *polls.Manager
}

func NewPollHandler(manager *polls.Manager) *PollHandler {
	return &PollHandler{manager: manager}
}

// ListPolls handles GET /admin/polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	list, err := h.manager.List(r.Context(), middleware.Username(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Poll{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.PollListResponse{Polls: list})
}

// CreatePoll handles POST /admin/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.PollInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.manager.Create(r.Context(), middleware.Username(r), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// GetPoll handles GET /admin/polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.manager.Get(r.Context(), middleware.Username(r), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll)
}

// UpdatePoll handles PUT /admin/polls/{id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.PollInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.manager.Update(r.Context(), middleware.Username(r), r.PathValue("id"), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll)
}

// DeletePoll handles DELETE /admin/polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Delete(r.Context(), middleware.Username(r), r.PathValue("id")); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "poll deleted"})
}

// ActivatePoll handles POST /admin/polls/{id}/activate
func (h *PollHandler) ActivatePoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.manager.Activate(r.Context(), middleware.Username(r), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll)
}

// DeactivatePoll handles POST /admin/polls/{id}/deactivate
func (h *PollHandler) DeactivatePoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.manager.Deactivate(r.Context(), middleware.Username(r), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll)
}
