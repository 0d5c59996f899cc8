// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"context"
	"sort"

	"github.com/danielhkuo/quickly-vote/models"
)

// Audit compares each candidate's counter with the anonymous vote log.
// Candidates seeded with votes before the log existed show up as discrepancies.
func (a *Aggregator) Audit(ctx context.Context, electionID string) (models.AuditReport, error) {
	if _, err := a.store.GetElection(ctx, electionID); err != nil {
		return models.AuditReport{}, err
	}

	candidates, err := a.store.ListCandidates(ctx, electionID)
	if err != nil {
		return models.AuditReport{}, err
	}
	events, err := a.store.CountVoteEvents(ctx, electionID)
	if err != nil {
		return models.AuditReport{}, err
	}

	report := models.AuditReport{
		ElectionID:    electionID,
		Discrepancies: []models.TallyDiscrepancy{},
		CheckedAt:     a.now().UTC(),
	}
	for _, c := range candidates {
		logged := events[c.ID]
		report.CounterTotal += c.Votes
		report.EventTotal += logged
		if logged != c.Votes {
			report.Discrepancies = append(report.Discrepancies, models.TallyDiscrepancy{
				CandidateID: c.ID,
				Counter:     c.Votes,
				Events:      logged,
			})
		}
	}
	sort.Slice(report.Discrepancies, func(i, j int) bool {
		return report.Discrepancies[i].CandidateID < report.Discrepancies[j].CandidateID
	})
	report.Consistent = len(report.Discrepancies) == 0

	return report, nil
}
