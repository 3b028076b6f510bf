// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// maxEmailLen is the RFC 5321 path limit.
const maxEmailLen = 254

// Account is a registered identity. The email is the login handle.
type Account struct {
	ID           ulid.ULID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AccountRepository manages account persistence.
type AccountRepository interface {
	// CreateAccount stores a new account and returns it with its store-assigned ID.
	// Returns an error wrapping errutil.ErrConflict if the email is already registered.
	CreateAccount(ctx context.Context, email, passwordHash string) (*Account, error)

	// GetAccountByEmail retrieves an account by email.
	// Returns an error wrapping errutil.ErrNotFound if no account has that email.
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
}

// NormalizeEmail trims and lower-cases an email and performs a shape check.
// Deliverability is not checked.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", oops.Code("ACCOUNT_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if len(email) > maxEmailLen {
		return "", oops.Code("ACCOUNT_INVALID_EMAIL").
			With("length", len(email)).
			Errorf("email exceeds %d characters", maxEmailLen)
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") || strings.ContainsAny(email, " \t\r\n") {
		return "", oops.Code("ACCOUNT_INVALID_EMAIL").Errorf("email is not a valid address")
	}
	return email, nil
}
