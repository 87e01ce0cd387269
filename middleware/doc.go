// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Each request is logged once on completion with method, path, status and
duration. Server errors are logged at error level.

# Sessions

RequireSession resolves the bearer token (or the session cookie) through an
Authenticator and rejects the request with 401 when it is missing or invalid:

	mux.HandleFunc("GET /me", middleware.WithLogging(
		middleware.RequireSession(gateway, authHandler.Me)))

Inside the handler, Username(r) returns the authenticated owner.

# Errors

WriteError maps domain errors from models to status codes (see StatusFor)
and writes a JSON ErrorResponse. 500 responses never carry internal detail.

# Scanner Probes

BlockProbes answers well-known scanner paths (/.git/, /wp-login.php, ...)
with 204 No Content before routing.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(middleware.BlockProbes(mux)),
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Used to log a salted hash of the voter address.
*/
package middleware
