// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open selects the driver from the configured database type:

	conn, err := db.Open("postgres", "postgres://...")
	conn, err := db.Open("sqlite", "file:quickly-vote.db")

PostgreSQL uses github.com/lib/pq. SQLite uses modernc.org/sqlite (pure Go,
no cgo) with foreign keys enabled and the pool capped at one connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The SQL is written for both dialects: $N placeholders, CURRENT_TIMESTAMP,
ON CONFLICT and RETURNING.

# Tables

  - account: voters, candidates and admins (bcrypt password hashes)
  - election: title, voting window and stored lifecycle status
  - candidate: display fields and the vote tally
  - voted_election: one row per (voter, election) that has voted
  - vote_event: anonymous log of accepted votes

# Relationships

	election 1──* candidate
	election 1──* voted_election *──1 account
	election 1──* vote_event *──1 candidate

All foreign keys use ON DELETE CASCADE. vote_event deliberately has no
account reference: a tally increment cannot be traced back to a voter.
*/
package db
