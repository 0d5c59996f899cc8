// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/store"
)

// Sweeper applies time-driven status transitions on a fixed interval
type Sweeper struct {
	store    *store.Store
	metrics  *metrics.Metrics
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(st *store.Store, m *metrics.Metrics, interval time.Duration) *Sweeper {
	return &Sweeper{store: st, metrics: m, interval: interval, now: time.Now}
}

// Sweep moves every election whose window says it is due. An election
// whose status changed since it was read is skipped, not overwritten.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := s.now().UTC()

	elections, err := s.store.ListUnfinishedElections(ctx)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, e := range elections {
		to, due := Due(e, now)
		if !due {
			continue
		}
		ok, err := s.store.SetElectionStatus(ctx, e.ID, e.Status, to, now)
		if err != nil {
			return moved, err
		}
		if !ok {
			continue
		}
		moved++
		s.metrics.ObserveTransition(to)
		slog.Info("election status changed", "election_id", e.ID, "from", e.Status, "to", to)
	}

	return moved, nil
}

// Run sweeps once immediately, then on every tick until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			slog.Error("election status sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
