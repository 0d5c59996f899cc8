// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveVote(t *testing.T) {
	m := New(nil)

	m.ObserveVote(OutcomeAccepted)
	m.ObserveVote(OutcomeAccepted)
	m.ObserveVote(OutcomeAlreadyVoted)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Votes().WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Votes().WithLabelValues(OutcomeAlreadyVoted)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Votes().WithLabelValues(OutcomeNotFound)))
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveVote(OutcomeAccepted)
	m.ObserveResults(25 * time.Millisecond)
	m.ObserveTransition("active")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["quickly_vote_votes_total"])
	assert.True(t, names["quickly_vote_results_duration_seconds"])
	assert.True(t, names["quickly_vote_status_transitions_total"])
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveVote(OutcomeAccepted)
		m.ObserveResults(time.Second)
		m.ObserveTransition("completed")
	})
}
