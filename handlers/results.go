// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/results"
)

type ResultsHandler struct {
	aggregator *results.Aggregator
}

func NewResultsHandler(a *results.Aggregator) *ResultsHandler {
	return &ResultsHandler{aggregator: a}
}

// GetResults handles GET /elections/{id}/results
// Standings are visible in every status; winner is set only once completed.
// Clients poll this endpoint, nothing is pushed.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id", "election")
	if !ok {
		return
	}

	res, err := h.aggregator.Compute(r.Context(), electionID)
	if err != nil {
		lookupError(w, err, "Election not found", "failed to compute results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, res)
}

// AuditElection handles GET /admin/elections/{id}/audit
// Compares candidate counters with the vote log
func (h *ResultsHandler) AuditElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := pathID(w, r, "id", "election")
	if !ok {
		return
	}

	report, err := h.aggregator.Audit(r.Context(), electionID)
	if err != nil {
		lookupError(w, err, "Election not found", "failed to audit election")
		return
	}

	if !report.Consistent {
		slog.Warn("tally audit found discrepancies", "election_id", electionID, "count", len(report.Discrepancies))
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}
