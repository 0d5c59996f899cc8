// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/models"
)

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrExpiredCredential = errors.New("credential expired")
	ErrWrongRole         = errors.New("role not permitted")
)

// Claims is the signed payload of a session credential
type Claims struct {
	Subject   string `json:"sub"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"exp"`
}

// SessionIssuer signs and verifies session credentials.
// Format: base64url(claims JSON) "." base64url(HMAC-SHA256(claims JSON))
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionIssuer(secret string, ttl time.Duration) *SessionIssuer {
	return &SessionIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the lifetime of issued credentials
func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

// Issue creates a credential for the given account
func (s *SessionIssuer) Issue(accountID, role string) (string, error) {
	claims := Claims{
		Subject:   accountID,
		Role:      role,
		ExpiresAt: s.now().Add(s.ttl).Unix(),
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode claims: %w", err)
	}

	enc := base64.RawURLEncoding
	return enc.EncodeToString(payload) + "." + enc.EncodeToString(s.sign(payload)), nil
}

// Parse checks the signature and expiry and returns the claims
func (s *SessionIssuer) Parse(token string) (Claims, error) {
	encPayload, encSig, ok := strings.Cut(token, ".")
	if !ok {
		return Claims{}, ErrInvalidCredential
	}

	enc := base64.RawURLEncoding
	payload, err := enc.DecodeString(encPayload)
	if err != nil {
		return Claims{}, ErrInvalidCredential
	}
	sig, err := enc.DecodeString(encSig)
	if err != nil {
		return Claims{}, ErrInvalidCredential
	}
	if !hmac.Equal(sig, s.sign(payload)) {
		return Claims{}, ErrInvalidCredential
	}

	var claims Claims
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&claims); err != nil {
		return Claims{}, ErrInvalidCredential
	}
	if claims.Subject == "" || !models.IsValidRole(claims.Role) {
		return Claims{}, ErrInvalidCredential
	}
	if s.now().Unix() >= claims.ExpiresAt {
		return Claims{}, ErrExpiredCredential
	}

	return claims, nil
}

func (s *SessionIssuer) sign(payload []byte) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write(payload)
	return h.Sum(nil)
}

// PrincipalLoader resolves an account ID to its current principal
type PrincipalLoader interface {
	GetPrincipal(ctx context.Context, accountID string) (models.Principal, error)
}

// Verifier turns a raw credential into a trusted principal. The account is
// re-read on every call so role and voted elections are never stale.
type Verifier struct {
	sessions *SessionIssuer
	accounts PrincipalLoader
}

func NewVerifier(sessions *SessionIssuer, accounts PrincipalLoader) *Verifier {
	return &Verifier{sessions: sessions, accounts: accounts}
}

// Verify validates the credential and loads the principal.
// If any roles are given, the principal must hold one of them.
func (v *Verifier) Verify(ctx context.Context, token string, roles ...string) (models.Principal, error) {
	claims, err := v.sessions.Parse(token)
	if err != nil {
		return models.Principal{}, err
	}

	principal, err := v.accounts.GetPrincipal(ctx, claims.Subject)
	if err != nil {
		return models.Principal{}, fmt.Errorf("failed to load principal: %w", err)
	}

	// A role change since issuance invalidates the credential
	if principal.Role != claims.Role {
		return models.Principal{}, ErrInvalidCredential
	}

	if len(roles) > 0 {
		for _, role := range roles {
			if principal.Role == role {
				return principal, nil
			}
		}
		return principal, ErrWrongRole
	}

	return principal, nil
}
