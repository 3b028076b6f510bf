// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/qanda/internal/auth"
	"github.com/holomush/qanda/pkg/errutil"
)

// CreateAccount stores a new account. The email must already be normalized.
func (r *PostgresRepository) CreateAccount(ctx context.Context, email, passwordHash string) (*auth.Account, error) {
	account := &auth.Account{
		ID:           ulid.Make(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    r.createdAt(),
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, account.ID.String(), account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, accountsEmailKey) {
			return nil, oops.Code("ACCOUNT_EMAIL_TAKEN").
				With("email", email).
				Wrap(errutil.ErrConflict)
		}
		return nil, oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			Wrap(err)
	}
	return account, nil
}

// GetAccountByEmail retrieves an account by its normalized email.
func (r *PostgresRepository) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	var (
		account auth.Account
		id      string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM accounts
		WHERE email = $1
	`, email).Scan(&id, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(errutil.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_FAILED").
			With("operation", "get account by email").
			Wrap(err)
	}

	account.ID, err = parseID("account_id", id)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
