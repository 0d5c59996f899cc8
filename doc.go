// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote API server.

Quickly Vote runs elections: voters register and sign in, administrators
create elections and manage their lifecycle, candidates register for an
election, voters cast exactly one vote per election, and anyone can read
the ranked results.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:quickly-vote.db SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -session-secret ...

A .env file in the working directory is loaded first, if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string
  - SESSION_SECRET (--session-secret): HMAC key for session credentials

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - SESSION_TTL (--session-ttl): session lifetime (default: 24h)
  - ADMIN_EMAIL / ADMIN_PASSWORD: admin account seeded at startup
  - SWEEP_INTERVAL (--sweep-interval): status sweep period (default: 1m)

# Architecture

  - ledger: vote admissibility and atomic recording
  - results: ranked results, turnout and vote-log audit
  - lifecycle: election status state machine and sweeper
  - store: SQL access for accounts, elections and candidates
  - auth: IDs, password hashing, session credentials
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, authentication
  - metrics: Prometheus collectors served at /metrics
  - models: Request/response and domain types
  - db: Connections and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
