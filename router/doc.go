// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{
		Store:    st,
		Sessions: sessions,
		Metrics:  m,
		Gatherer: reg,
	})

# Endpoints

Operational:

	GET /health   - Database ping
	GET /metrics  - Prometheus metrics (when a Gatherer is given)

Accounts:

	POST /auth/voter/signup    - Register a voter (auto-login)
	POST /auth/voter/login     - Voter login
	POST /auth/admin/login     - Admin login
	POST /auth/logout          - Clear the session cookie
	GET  /auth/me              - Current principal (any role)
	GET  /auth/voter/elections - Elections with has_voted (voter)

Elections and candidates (public):

	GET /elections                 - List elections
	GET /elections/{id}            - Election with candidates
	GET /elections/{id}/candidates - Candidates only
	GET /candidates/{id}           - One candidate

	POST /elections/{id}/candidates - Register a candidate (admin)

Voting and results:

	POST /elections/{id}/vote    - Cast a vote (authenticated; voter role enforced by the ledger)
	GET  /elections/{id}/results - Ranked results and turnout

Administration (admin role):

	POST   /admin/elections            - Create election
	PUT    /admin/elections/{id}       - Update fields / change status
	DELETE /admin/elections/{id}       - Delete an unvoted election and its candidates (409 once votes exist)
	GET    /admin/elections/{id}/audit - Compare tallies with the vote log

# Authentication

Credentials are read from "Authorization: Bearer <token>" or the "token"
cookie set at login.
*/
package router
