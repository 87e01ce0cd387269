// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
)

type AuthHandler struct {
	gateway *auth.Gateway
	ttl     time.Duration
}

func NewAuthHandler(gateway *auth.Gateway, ttl time.Duration) *AuthHandler {
	return &AuthHandler{gateway: gateway, ttl: ttl}
}

// CheckUsername handles POST /auth/check
func (h *AuthHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var req models.CheckUsernameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	status, err := h.gateway.CheckUsername(r.Context(), req.Username)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, status)
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	session, err := h.gateway.Register(r.Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, session.Token, h.ttl)
	middleware.JSONResponse(w, http.StatusCreated, session)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	session, err := h.gateway.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, session.Token, h.ttl)
	middleware.JSONResponse(w, http.StatusOK, session)
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only
// clears the browser cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "logged out"})
}

// Me handles GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r)
	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{
		Username: username,
		VotePath: "/p/" + username,
	})
}

// ChangePassword handles POST /me/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := h.gateway.ChangePassword(r.Context(), middleware.Username(r),
		req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "password changed"})
}

// ChangeUsername handles POST /me/username. The response carries a fresh
// session for the new name.
func (h *AuthHandler) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	var req models.ChangeUsernameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	session, err := h.gateway.ChangeUsername(r.Context(), middleware.Username(r), req.NewUsername, req.Password)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, session.Token, h.ttl)
	middleware.JSONResponse(w, http.StatusOK, session)
}
