// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity, credential and ID utilities.

# Session Credentials

A credential is the signed claims payload followed by its HMAC-SHA256:

	base64url({"sub": accountID, "role": role, "exp": unix}) "." base64url(mac)

	sessions := auth.NewSessionIssuer(secret, 24*time.Hour)
	token, err := sessions.Issue(accountID, models.RoleVoter)
	claims, err := sessions.Parse(token)

# Verification

Verifier re-reads the account on every request, so role and voted
elections reflect the database, not the moment the token was issued:

	v := auth.NewVerifier(sessions, st)
	principal, err := v.Verify(ctx, token, models.RoleAdmin)

A role change after issuance invalidates the credential.

# Passwords

Passwords are hashed with bcrypt (golang.org/x/crypto/bcrypt):

	hash, err := auth.HashPassword(password)
	err := auth.CheckPassword(hash, password)

# ID Generation

Records use random UUIDs; ValidateID rejects malformed references:

	id := auth.GenerateID()
	err := auth.ValidateID(id)
*/
package auth
