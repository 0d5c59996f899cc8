// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quickly_vote"

// Vote outcomes
const (
	OutcomeAccepted     = "accepted"
	OutcomeUnauthorized = "unauthorized"
	OutcomeNotFound     = "not_found"
	OutcomeInvalidState = "invalid_state"
	OutcomeAlreadyVoted = "already_voted"
	OutcomeError        = "error"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	votes             *prometheus.CounterVec
	resultsDuration   prometheus.Histogram
	statusTransitions *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when reg is not nil
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		votes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "votes_total",
				Help:      "Vote requests by outcome",
			},
			[]string{"outcome"},
		),
		resultsDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "results_duration_seconds",
			Help:      "Time taken to compute election results",
			Buckets:   prometheus.DefBuckets,
		}),
		statusTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "status_transitions_total",
				Help:      "Election status transitions by target status",
			},
			[]string{"to"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.votes, m.resultsDuration, m.statusTransitions)
	}

	return m
}

func (m *Metrics) ObserveVote(outcome string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveResults(d time.Duration) {
	if m == nil {
		return
	}
	m.resultsDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(to).Inc()
}

// Votes exposes the vote counter for tests
func (m *Metrics) Votes() *prometheus.CounterVec {
	return m.votes
}

// StatusTransitions exposes the transition counter for tests
func (m *Metrics) StatusTransitions() *prometheus.CounterVec {
	return m.statusTransitions
}
