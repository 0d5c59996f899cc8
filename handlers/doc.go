// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Vote API.

# Handler Types

  - AccountHandler: signup, login, logout, current principal
  - ElectionHandler: election listing and administration
  - CandidateHandler: candidate registration and lookup
  - VotingHandler: vote casting (delegates to ledger.Ledger)
  - ResultsHandler: results and tally audit (delegates to results.Aggregator)

Handlers are created via constructor functions:

	votingHandler := handlers.NewVotingHandler(ledger.New(st, m))

# Error Mapping

	400  malformed JSON or entity ID
	401  missing or invalid credential
	403  wrong role
	404  election or candidate not found
	409  election not active, candidate/election mismatch, already voted,
	     invalid status transition
	500  database failure (safe to retry)

# Election Lifecycle

Elections move upcoming → active → completed (or upcoming → completed).
Admins change status with PUT /admin/elections/{id}; the lifecycle sweeper
applies the same transitions when the voting window opens or closes.
*/
package handlers
