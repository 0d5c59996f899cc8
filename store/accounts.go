// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielhkuo/quickly-vote/models"
)

// CreateAccount inserts a new account. Returns ErrDuplicate if the email is taken.
func (s *Store) CreateAccount(ctx context.Context, a models.Account) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO account (id, first_name, last_name, email, password_hash, phone, date_of_birth, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.FirstName, a.LastName, a.Email, a.PasswordHash, a.Phone, a.DateOfBirth, a.Role, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account %s: %w", a.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetAccountByEmail looks up an account with the given role
func (s *Store) GetAccountByEmail(ctx context.Context, email, role string) (models.Account, error) {
	var a models.Account
	err := s.q.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, phone, date_of_birth, role, created_at
		FROM account
		WHERE email = $1 AND role = $2
	`, email, role).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash,
		&a.Phone, &a.DateOfBirth, &a.Role, &a.CreatedAt,
	)
	if err != nil {
		return models.Account{}, notFound(err, "account")
	}
	return a, nil
}

// GetPrincipal loads an account's identity, role and voted elections
func (s *Store) GetPrincipal(ctx context.Context, accountID string) (models.Principal, error) {
	var p models.Principal
	var first, last string
	err := s.q.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, role FROM account WHERE id = $1
	`, accountID).Scan(&p.ID, &p.Email, &first, &last, &p.Role)
	if err != nil {
		return models.Principal{}, notFound(err, "account")
	}
	p.Name = strings.TrimSpace(first + " " + last)

	voted, err := s.VotedElections(ctx, accountID)
	if err != nil {
		return models.Principal{}, err
	}
	p.VotedElections = voted

	return p, nil
}

// VotedElections returns the IDs of all elections the account has voted in
func (s *Store) VotedElections(ctx context.Context, accountID string) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT election_id FROM voted_election WHERE account_id = $1 ORDER BY election_id
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voted elections: %w", err)
	}
	defer rows.Close()

	voted := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan voted election: %w", err)
		}
		voted = append(voted, id)
	}
	return voted, rows.Err()
}

// AppendVotedElection marks the account as having voted in the election.
// It is a conditional append: it returns false without error if the flag
// was already set.
func (s *Store) AppendVotedElection(ctx context.Context, accountID, electionID string) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO voted_election (account_id, election_id)
		VALUES ($1, $2)
		ON CONFLICT (account_id, election_id) DO NOTHING
	`, accountID, electionID)
	if err != nil {
		return false, fmt.Errorf("failed to mark voted election: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

// CountVoters counts accounts with the given role
func (s *Store) CountVoters(ctx context.Context, role string) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM account WHERE role = $1
	`, role).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n, nil
}

// CountVotersWhoVoted counts voter-role accounts flagged for the election
func (s *Store) CountVotersWhoVoted(ctx context.Context, electionID string) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM voted_election ve
		JOIN account a ON a.id = ve.account_id
		WHERE ve.election_id = $1 AND a.role = $2
	`, electionID, models.RoleVoter).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count voters who voted: %w", err)
	}
	return n, nil
}
