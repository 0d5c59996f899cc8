// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

var (
	ErrUnauthorized = errors.New("voter role required")
	ErrInvalidState = errors.New("invalid state")
	ErrAlreadyVoted = errors.New("already voted in this election")

	ErrElectionNotFound  = fmt.Errorf("election %w", store.ErrNotFound)
	ErrCandidateNotFound = fmt.Errorf("candidate %w", store.ErrNotFound)

	ErrElectionNotOpen   = fmt.Errorf("%w: election is not currently active", ErrInvalidState)
	ErrCandidateMismatch = fmt.Errorf("%w: candidate does not belong to this election", ErrInvalidState)
)

// Receipt confirms an accepted vote
type Receipt struct {
	ElectionID    string
	CandidateID   string
	CandidateName string
	NewTally      int
}

// Ledger decides whether a vote is admissible and applies it
type Ledger struct {
	store   *store.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(st *store.Store, m *metrics.Metrics) *Ledger {
	return &Ledger{store: st, metrics: m, now: time.Now}
}

// CastVote records one vote by principal for candidateID in electionID.
//
// Checks run in this order, each with its own error: voter role
// (ErrUnauthorized), election exists (ErrElectionNotFound), election open
// (ErrElectionNotOpen), not yet voted (ErrAlreadyVoted), candidate exists
// (ErrCandidateNotFound), candidate in election (ErrCandidateMismatch).
// Both not-found errors match store.ErrNotFound.
//
// The voter flag, the tally increment and the anonymous vote event are
// written in one transaction. The flag is a conditional insert, so two
// concurrent submissions by the same voter yield exactly one accepted vote.
func (l *Ledger) CastVote(ctx context.Context, principal models.Principal, electionID, candidateID string) (Receipt, error) {
	receipt, err := l.castVote(ctx, principal, electionID, candidateID)
	l.metrics.ObserveVote(outcome(err))
	return receipt, err
}

func (l *Ledger) castVote(ctx context.Context, principal models.Principal, electionID, candidateID string) (Receipt, error) {
	if principal.ID == "" || principal.Role != models.RoleVoter {
		return Receipt{}, ErrUnauthorized
	}

	var receipt Receipt
	err := l.store.InTx(ctx, func(tx *store.Store) error {
		election, err := tx.GetElection(ctx, electionID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrElectionNotFound
		}
		if err != nil {
			return err
		}
		if !models.IsOpenStatus(election.Status) {
			return ErrElectionNotOpen
		}

		if principal.HasVoted(electionID) {
			return ErrAlreadyVoted
		}

		candidate, err := tx.GetCandidate(ctx, candidateID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrCandidateNotFound
		}
		if err != nil {
			return err
		}
		if candidate.ElectionID != electionID {
			return ErrCandidateMismatch
		}

		// The voted flag is the commit point: if another request already
		// set it, nothing below runs and the transaction rolls back.
		marked, err := tx.AppendVotedElection(ctx, principal.ID, electionID)
		if err != nil {
			return err
		}
		if !marked {
			return ErrAlreadyVoted
		}

		tally, err := tx.IncrementVotes(ctx, candidate.ID, 1)
		if err != nil {
			return err
		}

		if err := tx.AppendVoteEvent(ctx, auth.GenerateID(), electionID, candidate.ID, l.now().UTC()); err != nil {
			return err
		}

		receipt = Receipt{
			ElectionID:    electionID,
			CandidateID:   candidate.ID,
			CandidateName: candidate.Name,
			NewTally:      tally,
		}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	return receipt, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeAccepted
	case errors.Is(err, ErrUnauthorized):
		return metrics.OutcomeUnauthorized
	case errors.Is(err, store.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrInvalidState):
		return metrics.OutcomeInvalidState
	case errors.Is(err, ErrAlreadyVoted):
		return metrics.OutcomeAlreadyVoted
	default:
		return metrics.OutcomeError
	}
}
