// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds every SQL query used by the service.

	st := store.New(conn)
	err := st.InTx(ctx, func(tx *store.Store) error {
		marked, err := tx.AppendVotedElection(ctx, voterID, electionID)
		...
	})

Missing rows surface as ErrNotFound and unique-key collisions as
ErrDuplicate, for both PostgreSQL and SQLite.

Two operations carry the concurrency guarantees of vote casting:
IncrementVotes does the arithmetic in a single UPDATE ... RETURNING, and
AppendVotedElection is an INSERT ... ON CONFLICT DO NOTHING whose row count
says whether this call set the flag.
*/
package store
