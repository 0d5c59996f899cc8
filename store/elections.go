// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-vote/models"
)

const electionColumns = `id, title, description, start_date, end_date, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanElection(row scanner) (models.Election, error) {
	var e models.Election
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate,
		&e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (s *Store) CreateElection(ctx context.Context, e models.Election) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO election (id, title, description, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.Title, e.Description, e.StartDate, e.EndDate, e.Status, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert election: %w", err)
	}
	return nil
}

func (s *Store) GetElection(ctx context.Context, id string) (models.Election, error) {
	e, err := scanElection(s.q.QueryRowContext(ctx, `
		SELECT `+electionColumns+` FROM election WHERE id = $1
	`, id))
	if err != nil {
		return models.Election{}, notFound(err, "election")
	}
	return e, nil
}

// ListElections returns all elections, soonest start first
func (s *Store) ListElections(ctx context.Context) ([]models.Election, error) {
	return s.queryElections(ctx, `
		SELECT `+electionColumns+` FROM election ORDER BY start_date, id
	`)
}

// ListUnfinishedElections returns elections not yet completed
func (s *Store) ListUnfinishedElections(ctx context.Context) ([]models.Election, error) {
	return s.queryElections(ctx, `
		SELECT `+electionColumns+` FROM election WHERE status <> $1 ORDER BY start_date, id
	`, models.StatusCompleted)
}

func (s *Store) queryElections(ctx context.Context, query string, args ...any) ([]models.Election, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, e)
	}
	return elections, rows.Err()
}

// UpdateElectionDetails writes title, description and window. Status is
// changed only through SetElectionStatus.
func (s *Store) UpdateElectionDetails(ctx context.Context, e models.Election) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE election
		SET title = $1, description = $2, start_date = $3, end_date = $4, updated_at = $5
		WHERE id = $6
	`, e.Title, e.Description, e.StartDate, e.EndDate, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update election: %w", err)
	}
	return requireOneRow(res, "election")
}

// SetElectionStatus moves an election from one status to another. It is a
// compare-and-set: false is returned if the stored status was not from.
func (s *Store) SetElectionStatus(ctx context.Context, id, from, to string, at time.Time) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		UPDATE election SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4
	`, to, at, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update election status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

// DeleteElection removes an election and its candidates. It fails with
// ErrInUse once any vote has been cast in it.
func (s *Store) DeleteElection(ctx context.Context, id string) error {
	return s.InTx(ctx, func(tx *Store) error {
		var voted bool
		err := tx.q.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM voted_election WHERE election_id = $1)
				OR EXISTS (SELECT 1 FROM vote_event WHERE election_id = $1)
		`, id).Scan(&voted)
		if err != nil {
			return fmt.Errorf("failed to check election votes: %w", err)
		}
		if voted {
			return fmt.Errorf("election has votes: %w", ErrInUse)
		}

		res, err := tx.q.ExecContext(ctx, `DELETE FROM election WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete election: %w", err)
		}
		return requireOneRow(res, "election")
	})
}

func requireOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
