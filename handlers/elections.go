// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/lifecycle"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

type ElectionHandler struct {
	store   *store.Store
	metrics *metrics.Metrics
}

func NewElectionHandler(st *store.Store, m *metrics.Metrics) *ElectionHandler {
	return &ElectionHandler{store: st, metrics: m}
}

// ListElections handles GET /elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.store.ListElections(r.Context())
	if err != nil {
		slog.Error("failed to list elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, elections)
}

// GetElection handles GET /elections/{id}
// Returns the election with its candidates
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id", "election")
	if !ok {
		return
	}

	election, err := h.store.GetElection(r.Context(), electionID)
	if err != nil {
		lookupError(w, err, "Election not found", "failed to query election")
		return
	}

	candidates, err := h.store.ListCandidates(r.Context(), electionID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithCandidates{
		Election:   election,
		Candidates: candidates,
	})
}

// ListCandidates handles GET /elections/{id}/candidates
func (h *ElectionHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id", "election")
	if !ok {
		return
	}

	if _, err := h.store.GetElection(r.Context(), electionID); err != nil {
		lookupError(w, err, "Election not found", "failed to query election")
		return
	}

	candidates, err := h.store.ListCandidates(r.Context(), electionID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// CreateElection handles POST /admin/elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "start_date and end_date are required")
		return
	}
	if !req.EndDate.After(req.StartDate) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "end_date must be after start_date")
		return
	}

	status := models.StatusUpcoming
	if req.Status != "" {
		if !lifecycle.IsKnownStatus(req.Status) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "status must be one of: upcoming, active, completed")
			return
		}
		status = models.NormalizeStatus(req.Status)
	}

	now := time.Now().UTC()
	election := models.Election{
		ID:          auth.GenerateID(),
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate.UTC(),
		EndDate:     req.EndDate.UTC(),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateElection(r.Context(), election); err != nil {
		slog.Error("failed to create election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", election.ID, "status", election.Status)

	middleware.JSONResponse(w, http.StatusCreated, election)
}

// UpdateElection handles PUT /admin/elections/{id}
// Applies a partial update; status changes go through the lifecycle rules
func (h *ElectionHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id", "election")
	if !ok {
		return
	}

	var req models.UpdateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var updated models.Election
	err := h.store.InTx(r.Context(), func(tx *store.Store) error {
		election, err := tx.GetElection(r.Context(), electionID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if req.Title != nil || req.Description != nil || req.StartDate != nil || req.EndDate != nil {
			if req.Title != nil {
				election.Title = strings.TrimSpace(*req.Title)
			}
			if req.Description != nil {
				election.Description = *req.Description
			}
			if req.StartDate != nil {
				election.StartDate = req.StartDate.UTC()
			}
			if req.EndDate != nil {
				election.EndDate = req.EndDate.UTC()
			}
			if election.Title == "" {
				return errBadRequest("title cannot be empty")
			}
			if !election.EndDate.After(election.StartDate) {
				return errBadRequest("end_date must be after start_date")
			}
			election.UpdatedAt = now
			if err := tx.UpdateElectionDetails(r.Context(), election); err != nil {
				return err
			}
		}

		if req.Status != nil {
			election, err = lifecycle.Transition(r.Context(), tx, h.metrics, electionID, *req.Status, now)
			if err != nil {
				return err
			}
		}

		updated = election
		return nil
	})

	var badReq badRequestError
	switch {
	case err == nil:
	case errors.As(err, &badReq):
		middleware.ErrorResponse(w, http.StatusBadRequest, badReq.msg)
		return
	case errors.Is(err, lifecycle.ErrUnknownStatus):
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be one of: upcoming, active, completed")
		return
	case errors.Is(err, lifecycle.ErrInvalidTransition), errors.Is(err, lifecycle.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	default:
		lookupError(w, err, "Election not found", "failed to update election")
		return
	}

	slog.Info("election updated", "election_id", electionID, "status", updated.Status)

	middleware.JSONResponse(w, http.StatusOK, updated)
}

// DeleteElection handles DELETE /admin/elections/{id}
// Candidates are removed with it; elections with votes are refused
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id", "election")
	if !ok {
		return
	}

	if err := h.store.DeleteElection(r.Context(), electionID); err != nil {
		if errors.Is(err, store.ErrInUse) {
			middleware.ErrorResponse(w, http.StatusConflict, "Election has votes and cannot be deleted")
			return
		}
		lookupError(w, err, "Election not found", "failed to delete election")
		return
	}

	slog.Info("election deleted", "election_id", electionID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Election deleted successfully",
	})
}

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func errBadRequest(msg string) error { return badRequestError{msg: msg} }
