// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: database connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - SessionSecret: HMAC key for session credentials (required)
  - SessionTTL: session lifetime (default: 24h)
  - AdminEmail / AdminPassword: optional admin account seeded at startup
  - SweepInterval: election status sweep period (default: 1m, 0 disables)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--session-secret  Session signing secret
	--session-ttl     Session lifetime
	--admin-email     Seed admin email
	--admin-password  Seed admin password
	--sweep-interval  Status sweep interval

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	SESSION_SECRET → --session-secret
	SESSION_TTL    → --session-ttl
	ADMIN_EMAIL    → --admin-email
	ADMIN_PASSWORD → --admin-password
	SWEEP_INTERVAL → --sweep-interval

CLI flags take precedence over environment variables. main loads a .env
file (if present) before ParseFlags runs, so .env values behave like real
environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - SESSION_SECRET is missing
  - DATABASE_TYPE is not sqlite or postgres
  - only one of ADMIN_EMAIL / ADMIN_PASSWORD is set
  - a duration value does not parse
*/
package cliparse
