// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

type AccountHandler struct {
	store    *store.Store
	sessions *auth.SessionIssuer
}

func NewAccountHandler(st *store.Store, sessions *auth.SessionIssuer) *AccountHandler {
	return &AccountHandler{store: st, sessions: sessions}
}

// Signup handles POST /auth/voter/signup
// Registers a voter and logs them in
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	email := auth.NormalizeEmail(req.Email)

	if req.FirstName == "" || req.LastName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "first_name and last_name are required")
		return
	}
	if !strings.Contains(email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrInvalidPassword) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	account := models.Account{
		ID:           auth.GenerateID(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		PasswordHash: hash,
		DateOfBirth:  req.DateOfBirth,
		Role:         models.RoleVoter,
		CreatedAt:    time.Now().UTC(),
	}
	if req.Phone != "" {
		account.Phone = &req.Phone
	}

	err = h.store.CreateAccount(r.Context(), account)
	if errors.Is(err, store.ErrDuplicate) {
		middleware.ErrorResponse(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		slog.Error("failed to create account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	slog.Info("voter registered", "account_id", account.ID)

	h.issue(w, r, http.StatusCreated, "Voter registered successfully", account)
}

// VoterLogin handles POST /auth/voter/login
func (h *AccountHandler) VoterLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, models.RoleVoter, "Login successful")
}

// AdminLogin handles POST /auth/admin/login
func (h *AccountHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, models.RoleAdmin, "Admin login successful")
}

func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request, role, message string) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	account, err := h.store.GetAccountByEmail(r.Context(), auth.NormalizeEmail(req.Email), role)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(account.PasswordHash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	slog.Info("login", "account_id", account.ID, "role", role)

	h.issue(w, r, http.StatusOK, message, account)
}

func (h *AccountHandler) issue(w http.ResponseWriter, r *http.Request, status int, message string, account models.Account) {
	token, err := h.sessions.Issue(account.ID, account.Role)
	if err != nil {
		slog.Error("failed to issue session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	principal, err := h.store.GetPrincipal(r.Context(), account.ID)
	if err != nil {
		slog.Error("failed to load principal", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.SetSessionCookie(w, r, token, h.sessions.TTL())
	middleware.JSONResponse(w, status, models.AuthResponse{
		Message: message,
		Token:   token,
		User:    principal,
	})
}

// Logout handles POST /auth/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Logged out",
	})
}

// Me handles GET /auth/me
// Returns the authenticated principal
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, principal)
}

// MyElections handles GET /auth/voter/elections
// Lists every election with the caller's has_voted flag
func (h *AccountHandler) MyElections(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	elections, err := h.store.ListElections(r.Context())
	if err != nil {
		slog.Error("failed to list elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	out := make([]models.VoterElection, 0, len(elections))
	for _, e := range elections {
		out = append(out, models.VoterElection{
			Election: e,
			HasVoted: principal.HasVoted(e.ID),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, out)
}
