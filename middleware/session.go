// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SessionCookie is the cookie carrying the session token for browser clients.
const SessionCookie = "session"

type contextKey struct{}

// Authenticator resolves a session token to a username.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// SessionToken returns the bearer token, or the session cookie if there is
// no Authorization header.
func SessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireSession rejects requests without a valid session and makes the
// username available to next through Username.
func RequireSession(auth Authenticator, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := auth.Authenticate(r.Context(), SessionToken(r))
		if err != nil {
			WriteError(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, username)))
	}
}

// Username returns the authenticated owner set by RequireSession.
func Username(r *http.Request) string {
	u, _ := r.Context().Value(contextKey{}).(string)
	return u
}

func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
