// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Election status constants
const (
	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusOngoing   = "ongoing" // legacy alias of StatusActive
	StatusCompleted = "completed"
)

// Account roles
const (
	RoleVoter     = "voter"
	RoleCandidate = "candidate"
	RoleAdmin     = "admin"
)

// IsOpenStatus reports whether votes may be cast in an election with this status.
func IsOpenStatus(status string) bool {
	return status == StatusActive || status == StatusOngoing
}

// NormalizeStatus folds the legacy "ongoing" value into "active".
func NormalizeStatus(status string) string {
	if status == StatusOngoing {
		return StatusActive
	}
	return status
}

// IsValidRole reports whether role is one of the known account roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleVoter, RoleCandidate, RoleAdmin:
		return true
	}
	return false
}

// Request types

type SignupRequest struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Phone       string     `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateElectionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status,omitempty"`
}

// Nil fields are left unchanged.
type UpdateElectionRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

type RegisterCandidateRequest struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Bio          string `json:"bio"`
	Age          *int   `json:"age,omitempty"`
}

type CastVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

// Response types

type AuthResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    Principal `json:"user"`
}

type CastVoteResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ElectionID    string `json:"election_id"`
	CandidateID   string `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
	NewTally      int    `json:"new_tally"`
}

type ElectionWithCandidates struct {
	Election   Election    `json:"election"`
	Candidates []Candidate `json:"candidates"`
}

type VoterElection struct {
	Election
	HasVoted bool `json:"has_voted"`
}

// Domain types

// Account is a registered user. PasswordHash never leaves the server.
type Account struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Phone        *string    `json:"phone,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Principal is the verified identity behind a session credential.
type Principal struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	VotedElections []string `json:"voted_elections"`
}

// HasVoted reports whether electionID is in the principal's voted set.
func (p Principal) HasVoted(electionID string) bool {
	for _, id := range p.VotedElections {
		if id == electionID {
			return true
		}
	}
	return false
}

type Election struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Candidate struct {
	ID           string    `json:"id"`
	ElectionID   string    `json:"election_id"`
	Name         string    `json:"name"`
	Organization string    `json:"organization"`
	Bio          string    `json:"bio"`
	Age          *int      `json:"age,omitempty"`
	Votes        int       `json:"votes"`
	CreatedAt    time.Time `json:"created_at"`
}

// Result types

type ElectionSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
}

type ResultStatistics struct {
	TotalVotes        int     `json:"total_votes"`
	RegisteredVoters  int     `json:"registered_voters"`
	VotersWhoVoted    int     `json:"voters_who_voted"`
	TurnoutPercentage float64 `json:"turnout_percentage"`
	CandidateCount    int     `json:"candidate_count"`
}

type CandidateResult struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Organization string  `json:"organization"`
	Bio          string  `json:"bio"`
	Votes        int     `json:"votes"`
	Percentage   float64 `json:"percentage"`
	Rank         int     `json:"rank"` // 1-indexed ranking
}

type ElectionResults struct {
	Election   ElectionSummary   `json:"election"`
	Statistics ResultStatistics  `json:"statistics"`
	Candidates []CandidateResult `json:"candidates"`
	Winner     *CandidateResult  `json:"winner"`
	IsComplete bool              `json:"is_complete"`
	ComputedAt time.Time         `json:"computed_at"`
}

// Audit types

type TallyDiscrepancy struct {
	CandidateID string `json:"candidate_id"`
	Counter     int    `json:"counter"`
	Events      int    `json:"events"`
}

type AuditReport struct {
	ElectionID    string             `json:"election_id"`
	CounterTotal  int                `json:"counter_total"`
	EventTotal    int                `json:"event_total"`
	Consistent    bool               `json:"consistent"`
	Discrepancies []TallyDiscrepancy `json:"discrepancies"`
	CheckedAt     time.Time          `json:"checked_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
