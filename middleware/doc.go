// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# Authentication

WithAuth verifies the session credential and stores the principal on the
request context:

	adminOnly := middleware.WithAuth(verifier, models.RoleAdmin)
	mux.HandleFunc("POST /admin/elections", adminOnly(h.CreateElection))

	principal, ok := middleware.PrincipalFrom(r.Context())

Missing, malformed or expired credentials get 401; a valid credential with
the wrong role gets 403.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	err := middleware.ParseJSONBody(r, &req)

# Client IP

GetClientIP checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
