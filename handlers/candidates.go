// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

type CandidateHandler struct {
	store *store.Store
}

func NewCandidateHandler(st *store.Store) *CandidateHandler {
	return &CandidateHandler{store: st}
}

// RegisterCandidate handles POST /elections/{id}/candidates
func (h *CandidateHandler) RegisterCandidate(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id", "election")
	if !ok {
		return
	}

	var req models.RegisterCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Age != nil && (*req.Age < 18 || *req.Age > 150) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "age must be between 18 and 150")
		return
	}
	organization := strings.TrimSpace(req.Organization)
	if organization == "" {
		organization = "Independent"
	}

	election, err := h.store.GetElection(r.Context(), electionID)
	if err != nil {
		lookupError(w, err, "Election not found", "failed to query election")
		return
	}

	if election.Status == models.StatusCompleted {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot register candidates for a completed election")
		return
	}

	candidate := models.Candidate{
		ID:           auth.GenerateID(),
		ElectionID:   electionID,
		Name:         req.Name,
		Organization: organization,
		Bio:          req.Bio,
		Age:          req.Age,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.store.CreateCandidate(r.Context(), candidate); err != nil {
		slog.Error("failed to create candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register candidate")
		return
	}

	slog.Info("candidate registered", "election_id", electionID, "candidate_id", candidate.ID)

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// GetCandidate handles GET /candidates/{id}
func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := pathID(w, r, "id", "candidate")
	if !ok {
		return
	}

	candidate, err := h.store.GetCandidate(r.Context(), candidateID)
	if err != nil {
		lookupError(w, err, "Candidate not found", "failed to query candidate")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidate)
}
