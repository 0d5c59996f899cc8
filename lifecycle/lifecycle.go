// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown status")
	// ErrConflict means the stored status changed underneath the caller
	ErrConflict = errors.New("status changed concurrently")
)

// transitions lists the allowed forward moves of the stored status
var transitions = map[string][]string{
	models.StatusUpcoming: {models.StatusActive, models.StatusCompleted},
	models.StatusActive:   {models.StatusCompleted},
}

// IsKnownStatus reports whether status may be stored
func IsKnownStatus(status string) bool {
	switch status {
	case models.StatusUpcoming, models.StatusActive, models.StatusOngoing, models.StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether from → to is allowed. "ongoing" is treated as "active".
func CanTransition(from, to string) bool {
	from, to = models.NormalizeStatus(from), models.NormalizeStatus(to)
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Due returns the status the clock says the election should be in, and
// whether that differs from the stored status. Elections never move backwards.
func Due(e models.Election, now time.Time) (string, bool) {
	status := models.NormalizeStatus(e.Status)
	switch status {
	case models.StatusUpcoming:
		if !now.Before(e.EndDate) {
			return models.StatusCompleted, true
		}
		if !now.Before(e.StartDate) {
			return models.StatusActive, true
		}
	case models.StatusActive:
		if !now.Before(e.EndDate) {
			return models.StatusCompleted, true
		}
	}
	return e.Status, false
}

// Transition moves an election to status "to", validating the move against
// the stored status. The write is a compare-and-set on the status read.
func Transition(ctx context.Context, st *store.Store, m *metrics.Metrics, electionID, to string, now time.Time) (models.Election, error) {
	if !IsKnownStatus(to) {
		return models.Election{}, fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	to = models.NormalizeStatus(to)

	e, err := st.GetElection(ctx, electionID)
	if err != nil {
		return models.Election{}, err
	}
	if models.NormalizeStatus(e.Status) == to {
		return e, nil
	}
	if !CanTransition(e.Status, to) {
		return models.Election{}, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, e.Status, to)
	}

	ok, err := st.SetElectionStatus(ctx, e.ID, e.Status, to, now)
	if err != nil {
		return models.Election{}, err
	}
	if !ok {
		return models.Election{}, ErrConflict
	}
	m.ObserveTransition(to)

	e.Status = to
	e.UpdatedAt = now
	return e, nil
}
