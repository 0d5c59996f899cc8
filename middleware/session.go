// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/store"
)

// SessionCookie is the cookie carrying the session credential
const SessionCookie = "token"

type principalKey struct{}

// CredentialFromRequest reads the credential from the Authorization
// bearer header, falling back to the session cookie
func CredentialFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// SetSessionCookie stores the credential in an HTTP-only cookie
func SetSessionCookie(w http.ResponseWriter, r *http.Request, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithPrincipal stores the verified principal on the context
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal set by WithAuth
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(models.Principal)
	return p, ok
}

// WithAuth requires a valid credential. If roles are given the principal
// must hold one of them.
func WithAuth(v *auth.Verifier, roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := CredentialFromRequest(r)
			if token == "" {
				ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			principal, err := v.Verify(r.Context(), token, roles...)
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrWrongRole):
				ErrorResponse(w, http.StatusForbidden, "Access denied. "+strings.Join(roles, " or ")+" role required.")
				return
			case errors.Is(err, auth.ErrExpiredCredential):
				ErrorResponse(w, http.StatusUnauthorized, "Session expired")
				return
			case errors.Is(err, auth.ErrInvalidCredential), errors.Is(err, store.ErrNotFound):
				ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
				return
			default:
				slog.Error("failed to verify credential", "error", err)
				ErrorResponse(w, http.StatusInternalServerError, "Authentication verification failed")
				return
			}

			next(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		}
	}
}
