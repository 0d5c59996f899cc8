// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-vote/models"
)

const candidateColumns = `id, election_id, name, organization, bio, age, votes, created_at`

func scanCandidate(row scanner) (models.Candidate, error) {
	var c models.Candidate
	err := row.Scan(
		&c.ID, &c.ElectionID, &c.Name, &c.Organization, &c.Bio,
		&c.Age, &c.Votes, &c.CreatedAt,
	)
	return c, err
}

func (s *Store) CreateCandidate(ctx context.Context, c models.Candidate) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO candidate (id, election_id, name, organization, bio, age, votes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.ElectionID, c.Name, c.Organization, c.Bio, c.Age, c.Votes, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

func (s *Store) GetCandidate(ctx context.Context, id string) (models.Candidate, error) {
	c, err := scanCandidate(s.q.QueryRowContext(ctx, `
		SELECT `+candidateColumns+` FROM candidate WHERE id = $1
	`, id))
	if err != nil {
		return models.Candidate{}, notFound(err, "candidate")
	}
	return c, nil
}

// ListCandidates returns every candidate of the election in registration order
func (s *Store) ListCandidates(ctx context.Context, electionID string) ([]models.Candidate, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+candidateColumns+` FROM candidate WHERE election_id = $1 ORDER BY created_at, id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// IncrementVotes atomically adds by to the candidate's tally and returns
// the new count. The arithmetic happens in the database, never in Go.
func (s *Store) IncrementVotes(ctx context.Context, candidateID string, by int) (int, error) {
	var votes int
	err := s.q.QueryRowContext(ctx, `
		UPDATE candidate SET votes = votes + $1 WHERE id = $2 RETURNING votes
	`, by, candidateID).Scan(&votes)
	if err != nil {
		return 0, notFound(err, "candidate")
	}
	return votes, nil
}

// AppendVoteEvent records an anonymous accepted vote
func (s *Store) AppendVoteEvent(ctx context.Context, id, electionID, candidateID string, at time.Time) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO vote_event (id, election_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4)
	`, id, electionID, candidateID, at)
	if err != nil {
		return fmt.Errorf("failed to insert vote event: %w", err)
	}
	return nil
}

// CountVoteEvents returns the number of logged votes per candidate
func (s *Store) CountVoteEvents(ctx context.Context, electionID string) (map[string]int, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT candidate_id, COUNT(*) FROM vote_event WHERE election_id = $1 GROUP BY candidate_id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count vote events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan vote event count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
