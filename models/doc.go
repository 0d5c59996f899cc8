// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SignupRequest: first_name, last_name, email, password, phone, date_of_birth
  - LoginRequest: email, password
  - CreateElectionRequest: title, description, start_date, end_date, status
  - UpdateElectionRequest: partial election update (nil fields unchanged)
  - RegisterCandidateRequest: name, organization, bio, age
  - CastVoteRequest: candidate_id

# Response Types

  - AuthResponse: message, token, user
  - CastVoteResponse: election_id, candidate_id, candidate_name, new_tally
  - ElectionWithCandidates: election plus its candidates
  - VoterElection: election plus the caller's has_voted flag
  - ErrorResponse: error, message

# Domain Types

  - Account: registered user (password hash never serialized)
  - Principal: verified identity with role and voted elections
  - Election: title, window, lifecycle status
  - Candidate: display fields, vote tally, election back-reference

# Result Types

ElectionResults is recomputed on every read:

  - ElectionSummary: the election being reported
  - ResultStatistics: total votes and turnout
  - CandidateResult: votes, percentage (2 decimals), rank (1-indexed)

AuditReport compares candidate counters with the anonymous vote log.

# Constants

Status values:

	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusOngoing   = "ongoing"   // accepted as an alias of active
	StatusCompleted = "completed"

Roles:

	RoleVoter     = "voter"
	RoleCandidate = "candidate"
	RoleAdmin     = "admin"
*/
package models
