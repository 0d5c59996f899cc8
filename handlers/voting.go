// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type VotingHandler struct {
	ledger *ledger.Ledger
}

func NewVotingHandler(l *ledger.Ledger) *VotingHandler {
	return &VotingHandler{ledger: l}
}

// CastVote handles POST /elections/{id}/vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	electionID, ok := pathID(w, r, "id", "election")
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := auth.ValidateID(req.CandidateID); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	receipt, err := h.ledger.CastVote(r.Context(), principal, electionID, req.CandidateID)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrUnauthorized):
		middleware.ErrorResponse(w, http.StatusForbidden, "Access denied. voter role required.")
		return
	case errors.Is(err, ledger.ErrElectionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	case errors.Is(err, ledger.ErrCandidateNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	case errors.Is(err, ledger.ErrElectionNotOpen):
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not currently active")
		return
	case errors.Is(err, ledger.ErrCandidateMismatch):
		middleware.ErrorResponse(w, http.StatusConflict, "Candidate does not belong to this election")
		return
	case errors.Is(err, ledger.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this election")
		return
	default:
		slog.Error("failed to cast vote", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	// Voter identity is not logged alongside the candidate
	slog.Info("vote cast", "election_id", receipt.ElectionID, "candidate_id", receipt.CandidateID)

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Success:       true,
		Message:       "Vote cast successfully",
		ElectionID:    receipt.ElectionID,
		CandidateID:   receipt.CandidateID,
		CandidateName: receipt.CandidateName,
		NewTally:      receipt.NewTally,
	})
}
