// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

// TestDBURL opens a private in-memory SQLite database per connection pool
const TestDBURL = "file::memory:"

// TestPassword is the password of every account created by CreateTestAccount
const TestPassword = "password123"

const testSecret = "test-session-secret"

var (
	hashOnce     sync.Once
	passwordHash string
	accountSeq   atomic.Int64
)

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a Store over a fresh test database
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t))
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          cliparse.DefaultPort,
		DatabaseURL:   TestDBURL,
		DatabaseType:  "sqlite",
		SessionSecret: testSecret,
		SessionTTL:    time.Hour,
	}
}

// GetTestSessions returns a session issuer matching GetTestConfig
func GetTestSessions() *auth.SessionIssuer {
	cfg := GetTestConfig()
	return auth.NewSessionIssuer(cfg.SessionSecret, cfg.SessionTTL)
}

// CreateTestAccount inserts an account with the given role and TestPassword.
// The hash uses the minimum bcrypt cost to keep large voter pools fast.
func CreateTestAccount(t *testing.T, st *store.Store, role string) models.Account {
	t.Helper()

	hashOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		passwordHash = string(h)
	})

	n := accountSeq.Add(1)
	a := models.Account{
		ID:           auth.GenerateID(),
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", n),
		Email:        fmt.Sprintf("%s%d@example.com", role, n),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := st.CreateAccount(context.Background(), a); err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return a
}

// CreateTestVoter creates a voter account and returns it with a session token
func CreateTestVoter(t *testing.T, st *store.Store) (models.Account, string) {
	t.Helper()
	a := CreateTestAccount(t, st, models.RoleVoter)
	return a, IssueTestToken(t, a)
}

// CreateTestAdmin creates an admin account and returns it with a session token
func CreateTestAdmin(t *testing.T, st *store.Store) (models.Account, string) {
	t.Helper()
	a := CreateTestAccount(t, st, models.RoleAdmin)
	return a, IssueTestToken(t, a)
}

// IssueTestToken signs a credential for the account with the test secret
func IssueTestToken(t *testing.T, a models.Account) string {
	t.Helper()
	token, err := GetTestSessions().Issue(a.ID, a.Role)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// TestPrincipal loads the current principal for an account
func TestPrincipal(t *testing.T, st *store.Store, accountID string) models.Principal {
	t.Helper()
	p, err := st.GetPrincipal(context.Background(), accountID)
	if err != nil {
		t.Fatalf("Failed to load principal: %v", err)
	}
	return p
}

// CreateTestElection creates an election with the given status whose window
// spans now. status should be "upcoming", "active", "ongoing" or "completed".
func CreateTestElection(t *testing.T, st *store.Store, status string) models.Election {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	e := models.Election{
		ID:          auth.GenerateID(),
		Title:       "Test Election",
		Description: "A test election",
		StartDate:   now.Add(-time.Hour),
		EndDate:     now.Add(time.Hour),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.CreateElection(context.Background(), e); err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return e
}

// AddTestCandidate registers a candidate with a starting tally
func AddTestCandidate(t *testing.T, st *store.Store, electionID, name string, votes int) models.Candidate {
	t.Helper()

	c := models.Candidate{
		ID:           auth.GenerateID(),
		ElectionID:   electionID,
		Name:         name,
		Organization: "Independent",
		Votes:        votes,
		CreatedAt:    time.Now().UTC(),
	}
	if err := st.CreateCandidate(context.Background(), c); err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return c
}

// AddTestCandidateWithID is AddTestCandidate with a caller-chosen ID, for
// tests that depend on ID ordering.
func AddTestCandidateWithID(t *testing.T, st *store.Store, electionID, id, name string, votes int) models.Candidate {
	t.Helper()

	c := models.Candidate{
		ID:           id,
		ElectionID:   electionID,
		Name:         name,
		Organization: "Independent",
		Votes:        votes,
		CreatedAt:    time.Now().UTC(),
	}
	if err := st.CreateCandidate(context.Background(), c); err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return c
}

// MarkTestVoted sets the voted flag without touching any tally
func MarkTestVoted(t *testing.T, st *store.Store, accountID, electionID string) {
	t.Helper()
	if _, err := st.AppendVotedElection(context.Background(), accountID, electionID); err != nil {
		t.Fatalf("Failed to mark voted election: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// Bearer returns an Authorization header map for token
func Bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
