// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.StatusUpcoming, models.StatusActive, true},
		{models.StatusUpcoming, models.StatusOngoing, true},
		{models.StatusUpcoming, models.StatusCompleted, true},
		{models.StatusActive, models.StatusCompleted, true},
		{models.StatusOngoing, models.StatusCompleted, true},
		{models.StatusActive, models.StatusUpcoming, false},
		{models.StatusCompleted, models.StatusActive, false},
		{models.StatusCompleted, models.StatusUpcoming, false},
		{models.StatusActive, models.StatusActive, false},
		{"bogus", models.StatusActive, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDue(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  string
		now     time.Time
		want    string
		wantDue bool
	}{
		{"upcoming before start", models.StatusUpcoming, start.Add(-time.Minute), models.StatusUpcoming, false},
		{"upcoming at start", models.StatusUpcoming, start, models.StatusActive, true},
		{"upcoming past end skips active", models.StatusUpcoming, end.Add(time.Hour), models.StatusCompleted, true},
		{"active inside window", models.StatusActive, start.Add(time.Hour), models.StatusActive, false},
		{"active at end", models.StatusActive, end, models.StatusCompleted, true},
		{"ongoing past end", models.StatusOngoing, end.Add(time.Second), models.StatusCompleted, true},
		{"active before start stays active", models.StatusActive, start.Add(-time.Hour), models.StatusActive, false},
		{"completed never reopens", models.StatusCompleted, start.Add(time.Hour), models.StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := models.Election{Status: tt.status, StartDate: start, EndDate: end}
			got, due := Due(e, tt.now)
			assert.Equal(t, tt.wantDue, due)
			if due {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTransition(t *testing.T) {
	st := testutil.SetupTestStore(t)
	m := metrics.New(prometheus.NewRegistry())
	ctx := context.Background()
	now := time.Now().UTC()

	e := testutil.CreateTestElection(t, st, models.StatusUpcoming)

	got, err := Transition(ctx, st, m, e.ID, models.StatusOngoing, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status, "ongoing is stored as active")

	// Same status is a no-op and is not counted
	_, err = Transition(ctx, st, m, e.ID, models.StatusActive, now)
	require.NoError(t, err)

	_, err = Transition(ctx, st, m, e.ID, models.StatusUpcoming, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Transition(ctx, st, m, e.ID, "paused", now)
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = Transition(ctx, st, m, e.ID, models.StatusCompleted, now)
	require.NoError(t, err)

	stored, err := st.GetElection(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.StatusTransitions().WithLabelValues(models.StatusActive)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.StatusTransitions().WithLabelValues(models.StatusCompleted)))

	_, err = Transition(ctx, st, m, auth.GenerateID(), models.StatusActive, now)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func createWindowed(t *testing.T, st *store.Store, status string, start, end time.Time) models.Election {
	t.Helper()
	e := models.Election{
		ID:        auth.GenerateID(),
		Title:     "Windowed",
		StartDate: start,
		EndDate:   end,
		Status:    status,
		CreatedAt: start,
		UpdatedAt: start,
	}
	require.NoError(t, st.CreateElection(context.Background(), e))
	return e
}

func TestSweep(t *testing.T) {
	st := testutil.SetupTestStore(t)
	m := metrics.New(prometheus.NewRegistry())
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := createWindowed(t, st, models.StatusUpcoming, now.Add(time.Hour), now.Add(2*time.Hour))
	starting := createWindowed(t, st, models.StatusUpcoming, now.Add(-time.Hour), now.Add(time.Hour))
	ending := createWindowed(t, st, models.StatusActive, now.Add(-2*time.Hour), now.Add(-time.Hour))
	missed := createWindowed(t, st, models.StatusUpcoming, now.Add(-3*time.Hour), now.Add(-time.Hour))
	legacy := createWindowed(t, st, models.StatusOngoing, now.Add(-2*time.Hour), now.Add(-time.Minute))

	s := NewSweeper(st, m, time.Minute)
	s.now = func() time.Time { return now }

	moved, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, moved)

	want := map[string]string{
		future.ID:   models.StatusUpcoming,
		starting.ID: models.StatusActive,
		ending.ID:   models.StatusCompleted,
		missed.ID:   models.StatusCompleted,
		legacy.ID:   models.StatusCompleted,
	}
	for id, status := range want {
		e, err := st.GetElection(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, status, e.Status, e.Title)
	}

	// A second pass finds nothing left to do
	moved, err = s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, moved)
	assert.Equal(t, 3.0, promtest.ToFloat64(m.StatusTransitions().WithLabelValues(models.StatusCompleted)))
}
