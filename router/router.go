// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/handlers"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/results"
	"github.com/danielhkuo/quickly-vote/store"
)

// Deps are the collaborators shared by all handlers
type Deps struct {
	Store    *store.Store
	Sessions *auth.SessionIssuer
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	verifier := auth.NewVerifier(deps.Sessions, deps.Store)
	authed := middleware.WithAuth(verifier)
	voterOnly := middleware.WithAuth(verifier, models.RoleVoter)
	adminOnly := middleware.WithAuth(verifier, models.RoleAdmin)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(deps.Store, deps.Sessions)
	electionHandler := handlers.NewElectionHandler(deps.Store, deps.Metrics)
	candidateHandler := handlers.NewCandidateHandler(deps.Store)
	votingHandler := handlers.NewVotingHandler(ledger.New(deps.Store, deps.Metrics))
	resultsHandler := handlers.NewResultsHandler(results.New(deps.Store, deps.Metrics))

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.Ping(r.Context()); err != nil {
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics
	if deps.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// Accounts
	mux.HandleFunc("POST /auth/voter/signup", middleware.WithLogging(accountHandler.Signup))
	mux.HandleFunc("POST /auth/voter/login", middleware.WithLogging(accountHandler.VoterLogin))
	mux.HandleFunc("POST /auth/admin/login", middleware.WithLogging(accountHandler.AdminLogin))
	mux.HandleFunc("POST /auth/logout", middleware.WithLogging(accountHandler.Logout))
	mux.HandleFunc("GET /auth/me", middleware.WithLogging(authed(accountHandler.Me)))
	mux.HandleFunc("GET /auth/voter/elections", middleware.WithLogging(voterOnly(accountHandler.MyElections)))

	// Elections (public)
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.ListElections))
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.GetElection))
	mux.HandleFunc("GET /elections/{id}/candidates", middleware.WithLogging(electionHandler.ListCandidates))
	mux.HandleFunc("GET /candidates/{id}", middleware.WithLogging(candidateHandler.GetCandidate))

	// Candidate registration
	mux.HandleFunc("POST /elections/{id}/candidates", middleware.WithLogging(adminOnly(candidateHandler.RegisterCandidate)))

	// Voting and results. The ledger enforces the voter role itself.
	mux.HandleFunc("POST /elections/{id}/vote", middleware.WithLogging(authed(votingHandler.CastVote)))
	mux.HandleFunc("GET /elections/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Election administration
	mux.HandleFunc("POST /admin/elections", middleware.WithLogging(adminOnly(electionHandler.CreateElection)))
	mux.HandleFunc("PUT /admin/elections/{id}", middleware.WithLogging(adminOnly(electionHandler.UpdateElection)))
	mux.HandleFunc("DELETE /admin/elections/{id}", middleware.WithLogging(adminOnly(electionHandler.DeleteElection)))
	mux.HandleFunc("GET /admin/elections/{id}/audit", middleware.WithLogging(adminOnly(resultsHandler.AuditElection)))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-vote API v1"))
	})

	return mux
}
