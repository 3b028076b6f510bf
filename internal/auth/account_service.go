// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/qanda/pkg/errutil"
)

// dummyPasswordHash is verified when an email is not registered so that
// login takes the same time whether or not the account exists.
// It is not a credential and never matches any password.
//
//nolint:gosec // G101: intentionally fake digest for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// AccountService registers accounts and logs them in.
type AccountService struct {
	accounts AccountRepository
	hasher   PasswordHasher
	tokens   TokenCodec
	now      func() time.Time
	logger   *slog.Logger
}

// AccountServiceOption configures an AccountService.
type AccountServiceOption func(*AccountService)

// WithLogger sets the service logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) AccountServiceOption {
	return func(s *AccountService) {
		s.logger = logger
	}
}

// WithClock sets the time source used to stamp issued tokens.
func WithClock(now func() time.Time) AccountServiceOption {
	return func(s *AccountService) {
		s.now = now
	}
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts AccountRepository, hasher PasswordHasher, tokens TokenCodec, opts ...AccountServiceOption) (*AccountService, error) {
	if accounts == nil {
		return nil, oops.Errorf("accounts repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token codec is required")
	}

	s := &AccountService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		return nil, oops.Errorf("logger cannot be nil")
	}
	if s.now == nil {
		return nil, oops.Errorf("clock cannot be nil")
	}
	return s, nil
}

// Register creates an account with a hashed password.
// A duplicate email fails with ACCOUNT_EMAIL_TAKEN.
func (s *AccountService) Register(ctx context.Context, email, password string) (*Account, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("ACCOUNT_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, err := s.accounts.CreateAccount(ctx, normalized, digest)
	if err != nil {
		if errors.Is(err, errutil.ErrConflict) {
			return nil, oops.Code("ACCOUNT_EMAIL_TAKEN").
				With("email", normalized).
				Wrap(err)
		}
		return nil, oops.Code("ACCOUNT_REGISTER_FAILED").
			With("operation", "create account").
			Wrap(err)
	}

	s.logger.DebugContext(ctx, "account registered", "account_id", account.ID.String())
	return account, nil
}

// Login verifies credentials and issues a session token.
// Unknown email and wrong password both fail with AUTH_INVALID_CREDENTIALS;
// the password is verified in both cases so timing does not reveal which.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	var account *Account
	normalized, emailErr := NormalizeEmail(email)
	if emailErr == nil {
		found, lookupErr := s.accounts.GetAccountByEmail(ctx, normalized)
		switch {
		case lookupErr == nil:
			account = found
		case errors.Is(lookupErr, errutil.ErrNotFound):
			// unknown email: fall through to the dummy digest
		default:
			return "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get account by email").
				Wrap(lookupErr)
		}
	}

	targetHash := dummyPasswordHash
	if account != nil {
		targetHash = account.PasswordHash
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if account == nil {
			return "", invalidCredentials()
		}
		s.logger.WarnContext(ctx, "stored password hash is malformed",
			"account_id", account.ID.String(),
			"error", verifyErr)
		return "", oops.Code("AUTH_CORRUPT_HASH").
			With("account_id", account.ID.String()).
			With("cause", verifyErr.Error()).
			Errorf("stored password hash is malformed")
	}

	if account == nil || !valid {
		return "", invalidCredentials()
	}

	token, err := s.tokens.Issue(account.ID, s.now())
	if err != nil {
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			With("account_id", account.ID.String()).
			Wrap(err)
	}

	return token, nil
}

func invalidCredentials() error {
	return oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
}
