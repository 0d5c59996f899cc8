// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

// Aggregator recomputes election results on every call; nothing is cached
type Aggregator struct {
	store   *store.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(st *store.Store, m *metrics.Metrics) *Aggregator {
	return &Aggregator{store: st, metrics: m, now: time.Now}
}

// Compute builds the ranked result snapshot for an election. The only
// error besides infrastructure failures is store.ErrNotFound.
func (a *Aggregator) Compute(ctx context.Context, electionID string) (models.ElectionResults, error) {
	start := time.Now()
	defer func() { a.metrics.ObserveResults(time.Since(start)) }()

	election, err := a.store.GetElection(ctx, electionID)
	if err != nil {
		return models.ElectionResults{}, err
	}

	var (
		candidates []models.Candidate
		registered int
		voted      int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = a.store.ListCandidates(gctx, electionID)
		return err
	})
	g.Go(func() error {
		var err error
		registered, err = a.store.CountVoters(gctx, models.RoleVoter)
		return err
	})
	g.Go(func() error {
		var err error
		voted, err = a.store.CountVotersWhoVoted(gctx, electionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.ElectionResults{}, err
	}

	ranked, total := Rank(candidates)
	complete := models.NormalizeStatus(election.Status) == models.StatusCompleted

	res := models.ElectionResults{
		Election: models.ElectionSummary{
			ID:          election.ID,
			Title:       election.Title,
			Description: election.Description,
			StartDate:   election.StartDate,
			EndDate:     election.EndDate,
			Status:      election.Status,
		},
		Statistics: models.ResultStatistics{
			TotalVotes:        total,
			RegisteredVoters:  registered,
			VotersWhoVoted:    voted,
			TurnoutPercentage: Percentage(voted, registered),
			CandidateCount:    len(ranked),
		},
		Candidates: ranked,
		IsComplete: complete,
		ComputedAt: a.now().UTC(),
	}

	if complete && len(ranked) > 0 {
		winner := ranked[0]
		res.Winner = &winner
	}

	return res, nil
}

// Rank orders candidates by votes descending, breaking ties by candidate
// ID ascending, and annotates each with its share and 1-based rank.
// It returns the ranked list and the total number of votes.
func Rank(candidates []models.Candidate) ([]models.CandidateResult, int) {
	sorted := make([]models.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Votes != sorted[j].Votes {
			return sorted[i].Votes > sorted[j].Votes
		}
		return sorted[i].ID < sorted[j].ID
	})

	total := 0
	for _, c := range sorted {
		total += c.Votes
	}

	ranked := make([]models.CandidateResult, 0, len(sorted))
	for i, c := range sorted {
		ranked = append(ranked, models.CandidateResult{
			ID:           c.ID,
			Name:         c.Name,
			Organization: c.Organization,
			Bio:          c.Bio,
			Votes:        c.Votes,
			Percentage:   Percentage(c.Votes, total),
			Rank:         i + 1,
		})
	}

	return ranked, total
}

// Percentage returns part/whole*100 rounded to 2 decimals, or 0 when whole is 0
func Percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*100*100) / 100
}
