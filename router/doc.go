// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the livepoll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints. NewHandler
adds scanner filtering and CORS on top and is what the server runs:

	server.Handler = router.NewHandler(router.Deps{...})

# Endpoints

Health:

	GET /health
	GET /

Voter page (public):

	GET  /p/{username}       - Active poll
	POST /p/{username}/votes - Cast or move a vote

Accounts:

	POST /auth/check    - Validate a username and report if it is taken
	POST /auth/register - Create an account
	POST /auth/login    - Start a session
	POST /auth/logout   - Clear the session cookie
	GET  /me            - Current owner (session)
	POST /me/password   - Change password (session)
	POST /me/username   - Rename the owner and everything they own (session)

Poll management (session):

	GET    /admin/polls
	POST   /admin/polls
	GET    /admin/polls/{id}
	PUT    /admin/polls/{id}
	DELETE /admin/polls/{id}
	POST   /admin/polls/{id}/activate
	POST   /admin/polls/{id}/deactivate

Results (session):

	GET    /admin/results            - List result files
	POST   /admin/results            - Archive the active poll now
	GET    /admin/results/current    - Download live tallies
	GET    /admin/results/{filename} - Download a result file
	DELETE /admin/results/{filename} - Delete a result file
*/
package router
