// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func TestCreateAccountDuplicateEmail(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	a := testutil.CreateTestAccount(t, st, models.RoleVoter)
	dup := a
	dup.ID = auth.GenerateID()

	err := st.CreateAccount(ctx, dup)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestGetAccountByEmail(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	a := testutil.CreateTestAccount(t, st, models.RoleVoter)

	got, err := st.GetAccountByEmail(ctx, a.Email, models.RoleVoter)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.PasswordHash, got.PasswordHash)

	_, err = st.GetAccountByEmail(ctx, a.Email, models.RoleAdmin)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetPrincipal(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	a := testutil.CreateTestAccount(t, st, models.RoleVoter)
	e := testutil.CreateTestElection(t, st, models.StatusActive)

	p, err := st.GetPrincipal(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Email, p.Email)
	assert.Equal(t, a.FirstName+" "+a.LastName, p.Name)
	assert.Empty(t, p.VotedElections)

	testutil.MarkTestVoted(t, st, a.ID, e.ID)
	p, err = st.GetPrincipal(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{e.ID}, p.VotedElections)

	_, err = st.GetPrincipal(ctx, auth.GenerateID())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAppendVotedElectionIsConditional(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	a := testutil.CreateTestAccount(t, st, models.RoleVoter)
	e := testutil.CreateTestElection(t, st, models.StatusActive)

	marked, err := st.AppendVotedElection(ctx, a.ID, e.ID)
	require.NoError(t, err)
	assert.True(t, marked)

	marked, err = st.AppendVotedElection(ctx, a.ID, e.ID)
	require.NoError(t, err)
	assert.False(t, marked, "second append must not set the flag again")

	voted, err := st.VotedElections(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{e.ID}, voted)
}

func TestCountVoters(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	e := testutil.CreateTestElection(t, st, models.StatusActive)
	v1 := testutil.CreateTestAccount(t, st, models.RoleVoter)
	testutil.CreateTestAccount(t, st, models.RoleVoter)
	admin := testutil.CreateTestAccount(t, st, models.RoleAdmin)

	testutil.MarkTestVoted(t, st, v1.ID, e.ID)
	// Non-voter roles never count towards turnout
	testutil.MarkTestVoted(t, st, admin.ID, e.ID)

	registered, err := st.CountVoters(ctx, models.RoleVoter)
	require.NoError(t, err)
	assert.Equal(t, 2, registered)

	voted, err := st.CountVotersWhoVoted(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, voted)
}

func TestIncrementVotes(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	e := testutil.CreateTestElection(t, st, models.StatusActive)
	c := testutil.AddTestCandidate(t, st, e.ID, "Alice", 5)

	n, err := st.IncrementVotes(ctx, c.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = st.IncrementVotes(ctx, auth.GenerateID(), 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestIncrementVotesConcurrent(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	e := testutil.CreateTestElection(t, st, models.StatusActive)
	c := testutil.AddTestCandidate(t, st, e.ID, "Alice", 0)

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.IncrementVotes(ctx, c.ID, 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("IncrementVotes() error = %v", err)
	}

	got, err := st.GetCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, workers, got.Votes)
}

func TestSetElectionStatusCompareAndSet(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	e := testutil.CreateTestElection(t, st, models.StatusUpcoming)

	ok, err := st.SetElectionStatus(ctx, e.ID, models.StatusActive, models.StatusCompleted, now)
	require.NoError(t, err)
	assert.False(t, ok, "stale from-status must not write")

	ok, err = st.SetElectionStatus(ctx, e.ID, models.StatusUpcoming, models.StatusActive, now)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := st.GetElection(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)
}

func TestListUnfinishedElections(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	testutil.CreateTestElection(t, st, models.StatusUpcoming)
	testutil.CreateTestElection(t, st, models.StatusActive)
	testutil.CreateTestElection(t, st, models.StatusCompleted)

	all, err := st.ListElections(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	unfinished, err := st.ListUnfinishedElections(ctx)
	require.NoError(t, err)
	assert.Len(t, unfinished, 2)
	for _, e := range unfinished {
		assert.NotEqual(t, models.StatusCompleted, e.Status)
	}
}

func TestUpdateElectionDetailsKeepsStatus(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	e := testutil.CreateTestElection(t, st, models.StatusActive)
	e.Title = "Renamed"
	e.Status = models.StatusCompleted
	require.NoError(t, st.UpdateElectionDetails(ctx, e))

	got, err := st.GetElection(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, models.StatusActive, got.Status)

	e.ID = auth.GenerateID()
	assert.ErrorIs(t, st.UpdateElectionDetails(ctx, e), store.ErrNotFound)
}

func TestDeleteElectionCascadesCandidates(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	e := testutil.CreateTestElection(t, st, models.StatusUpcoming)
	c := testutil.AddTestCandidate(t, st, e.ID, "Alice", 0)

	require.NoError(t, st.DeleteElection(ctx, e.ID))

	_, err := st.GetCandidate(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, st.DeleteElection(ctx, e.ID), store.ErrNotFound)
}

func TestDeleteElectionRefusedOnceVoted(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	voter := testutil.CreateTestAccount(t, st, models.RoleVoter)
	e := testutil.CreateTestElection(t, st, models.StatusActive)
	c := testutil.AddTestCandidate(t, st, e.ID, "Alice", 0)
	testutil.MarkTestVoted(t, st, voter.ID, e.ID)

	assert.ErrorIs(t, st.DeleteElection(ctx, e.ID), store.ErrInUse)

	logged := testutil.CreateTestElection(t, st, models.StatusActive)
	lc := testutil.AddTestCandidate(t, st, logged.ID, "Bob", 0)
	require.NoError(t, st.AppendVoteEvent(ctx, auth.GenerateID(), logged.ID, lc.ID, time.Now().UTC()))

	assert.ErrorIs(t, st.DeleteElection(ctx, logged.ID), store.ErrInUse)

	voted, err := st.VotedElections(ctx, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{e.ID}, voted)

	_, err = st.GetCandidate(ctx, c.ID)
	assert.NoError(t, err)

	events, err := st.CountVoteEvents(ctx, logged.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, events[lc.ID])
}

func TestListCandidatesScopedToElection(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	e1 := testutil.CreateTestElection(t, st, models.StatusActive)
	e2 := testutil.CreateTestElection(t, st, models.StatusActive)
	testutil.AddTestCandidate(t, st, e1.ID, "Alice", 0)
	testutil.AddTestCandidate(t, st, e1.ID, "Bob", 0)
	testutil.AddTestCandidate(t, st, e2.ID, "Carol", 0)

	got, err := st.ListCandidates(ctx, e1.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, e1.ID, c.ElectionID)
	}

	empty, err := st.ListCandidates(ctx, auth.GenerateID())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestInTxRollsBack(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	e := testutil.CreateTestElection(t, st, models.StatusActive)
	c := testutil.AddTestCandidate(t, st, e.ID, "Alice", 0)

	boom := errors.New("boom")
	err := st.InTx(ctx, func(tx *store.Store) error {
		if _, err := tx.IncrementVotes(ctx, c.ID, 1); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := st.GetCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Votes)
}

func TestCountVoteEvents(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	e := testutil.CreateTestElection(t, st, models.StatusActive)
	a := testutil.AddTestCandidate(t, st, e.ID, "Alice", 0)
	b := testutil.AddTestCandidate(t, st, e.ID, "Bob", 0)

	require.NoError(t, st.AppendVoteEvent(ctx, auth.GenerateID(), e.ID, a.ID, now))
	require.NoError(t, st.AppendVoteEvent(ctx, auth.GenerateID(), e.ID, a.ID, now))
	require.NoError(t, st.AppendVoteEvent(ctx, auth.GenerateID(), e.ID, b.ID, now))

	counts, err := st.CountVoteEvents(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{a.ID: 2, b.ID: 1}, counts)
}
