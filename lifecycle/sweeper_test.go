// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func TestRunStopsOnCancel(t *testing.T) {
	st := testutil.SetupTestStore(t)
	// The sql package keeps an opener goroutine per pool; only Run's goroutine matters here
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	now := time.Now().UTC()
	e := createWindowed(t, st, models.StatusUpcoming, now.Add(-time.Minute), now.Add(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	s := NewSweeper(st, nil, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// The first sweep runs immediately
	deadline := time.After(2 * time.Second)
	for {
		got, err := st.GetElection(context.Background(), e.ID)
		if err != nil {
			t.Fatalf("GetElection() error = %v", err)
		}
		if got.Status == models.StatusActive {
			break
		}
		select {
		case <-deadline:
			t.Fatal("sweeper never activated the election")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunDisabled(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewSweeper(nil, nil, 0)
	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with a zero interval should return immediately")
	}
}
