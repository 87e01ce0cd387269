// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"github.com/danielhkuo/livepoll/archive"
	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/handlers"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/polls"
)

// Deps are the wired components the routes are served from.
type Deps struct {
	Gateway    *auth.Gateway
	Manager    *polls.Manager
	Archiver   *archive.Archiver
	SessionTTL time.Duration
	IPSalt     string
}

func NewRouter(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(d.Gateway, d.SessionTTL)
	pollHandler := handlers.NewPollHandler(d.Manager)
	votingHandler := handlers.NewVotingHandler(d.Manager, d.IPSalt)
	resultsHandler := handlers.NewResultsHandler(d.Manager, d.Archiver)

	owner := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireSession(d.Gateway, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voter page (public)
	mux.HandleFunc("GET /p/{username}", middleware.WithLogging(votingHandler.GetActivePoll))
	mux.HandleFunc("POST /p/{username}/votes", middleware.WithLogging(votingHandler.CastVote))

	// Accounts
	mux.HandleFunc("POST /auth/check", middleware.WithLogging(authHandler.CheckUsername))
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(authHandler.Register))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /auth/logout", middleware.WithLogging(authHandler.Logout))
	mux.HandleFunc("GET /me", owner(authHandler.Me))
	mux.HandleFunc("POST /me/password", owner(authHandler.ChangePassword))
	mux.HandleFunc("POST /me/username", owner(authHandler.ChangeUsername))

	// Poll management (session required)
	mux.HandleFunc("GET /admin/polls", owner(pollHandler.ListPolls))
	mux.HandleFunc("POST /admin/polls", owner(pollHandler.CreatePoll))
	mux.HandleFunc("GET /admin/polls/{id}", owner(pollHandler.GetPoll))
	mux.HandleFunc("PUT /admin/polls/{id}", owner(pollHandler.UpdatePoll))
	mux.HandleFunc("DELETE /admin/polls/{id}", owner(pollHandler.DeletePoll))
	mux.HandleFunc("POST /admin/polls/{id}/activate", owner(pollHandler.ActivatePoll))
	mux.HandleFunc("POST /admin/polls/{id}/deactivate", owner(pollHandler.DeactivatePoll))

	// Result artifacts (session required)
	mux.HandleFunc("GET /admin/results", owner(resultsHandler.ListResults))
	mux.HandleFunc("POST /admin/results", owner(resultsHandler.ArchiveActive))
	mux.HandleFunc("GET /admin/results/current", owner(resultsHandler.DownloadCurrent))
	mux.HandleFunc("GET /admin/results/{filename}", owner(resultsHandler.DownloadResult))
	mux.HandleFunc("DELETE /admin/results/{filename}", owner(resultsHandler.DeleteResult))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("livepoll API v1"))
	})

	return mux
}

// NewHandler is NewRouter behind scanner filtering and CORS, ready to serve.
func NewHandler(d Deps) http.Handler {
	return middleware.CORS(middleware.BlockProbes(NewRouter(d)))
}
