// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/results"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func TestGetResults(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler := NewResultsHandler(results.New(st, nil))

	active := testutil.CreateTestElection(t, st, models.StatusActive)
	testutil.AddTestCandidate(t, st, active.ID, "C3", 30)
	testutil.AddTestCandidate(t, st, active.ID, "C4", 70)

	completed := testutil.CreateTestElection(t, st, models.StatusCompleted)
	testutil.AddTestCandidate(t, st, completed.ID, "Winner", 5)
	testutil.AddTestCandidate(t, st, completed.ID, "Runner-up", 2)

	empty := testutil.CreateTestElection(t, st, models.StatusCompleted)

	tests := []struct {
		name           string
		electionID     string
		expectedStatus int
		checkResponse  func(t *testing.T, res *models.ElectionResults)
	}{
		{
			name:           "standings while active",
			electionID:     active.ID,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, res *models.ElectionResults) {
				if res.Statistics.TotalVotes != 100 {
					t.Errorf("Expected total_votes 100, got %d", res.Statistics.TotalVotes)
				}
				if res.Candidates[0].Name != "C4" || res.Candidates[0].Percentage != 70 {
					t.Errorf("Expected C4 first with 70%%, got %+v", res.Candidates[0])
				}
				if res.Winner != nil {
					t.Error("Expected no winner before completion")
				}
			},
		},
		{
			name:           "winner once completed",
			electionID:     completed.ID,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, res *models.ElectionResults) {
				if res.Winner == nil || res.Winner.Name != "Winner" {
					t.Errorf("Expected winner 'Winner', got %+v", res.Winner)
				}
				if !res.IsComplete {
					t.Error("Expected is_complete to be true")
				}
			},
		},
		{
			name:           "no candidates",
			electionID:     empty.ID,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, res *models.ElectionResults) {
				if res.Candidates == nil || len(res.Candidates) != 0 {
					t.Errorf("Expected empty candidate list, got %v", res.Candidates)
				}
				if res.Winner != nil {
					t.Error("Expected winner to be null")
				}
			},
		},
		{
			name:           "unknown election",
			electionID:     auth.GenerateID(),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid ID",
			electionID:     "undefined",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/elections/"+tt.electionID+"/results", nil)
			req.SetPathValue("id", tt.electionID)
			w := httptest.NewRecorder()

			handler.GetResults(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.checkResponse != nil && w.Code == http.StatusOK {
				var res models.ElectionResults
				testutil.AssertJSON(t, w, &res)
				tt.checkResponse(t, &res)
			}
		})
	}
}

func TestAuditElection(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler := NewResultsHandler(results.New(st, nil))

	e := testutil.CreateTestElection(t, st, models.StatusActive)
	testutil.AddTestCandidate(t, st, e.ID, "Seeded", 3)

	req := httptest.NewRequest("GET", "/admin/elections/"+e.ID+"/audit", nil)
	req.SetPathValue("id", e.ID)
	w := httptest.NewRecorder()
	handler.AuditElection(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var report models.AuditReport
	testutil.AssertJSON(t, w, &report)
	if report.Consistent {
		t.Error("Expected seeded counters to be reported as inconsistent")
	}
	if report.CounterTotal != 3 || report.EventTotal != 0 {
		t.Errorf("Unexpected totals %d/%d", report.CounterTotal, report.EventTotal)
	}
}
