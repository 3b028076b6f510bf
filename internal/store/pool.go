// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// poolIface is the subset of *pgxpool.Pool the repository uses.
// pgxmock.PgxPoolIface satisfies it in unit tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Default connection retry settings.
const (
	DefaultConnectAttempts = 5
	DefaultConnectBackoff  = 500 * time.Millisecond
	maxConnectBackoff      = 5 * time.Second
)

// ConnectOptions configures Connect.
type ConnectOptions struct {
	URL      string
	MaxConns int32
	// Attempts is the number of ping attempts before giving up. Zero uses
	// DefaultConnectAttempts.
	Attempts uint64
	// Backoff is the initial delay between attempts, doubled each retry.
	// Zero uses DefaultConnectBackoff.
	Backoff time.Duration
	Logger  *slog.Logger
}

// Connect opens a pool and pings it until the database answers or the
// attempts run out.
func Connect(ctx context.Context, opts ConnectOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").With("operation", "parse database url").Wrap(err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}

	attempts := opts.Attempts
	if attempts == 0 {
		attempts = DefaultConnectAttempts
	}
	backoffBase := opts.Backoff
	if backoffBase <= 0 {
		backoffBase = DefaultConnectBackoff
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backoff := retry.WithMaxRetries(attempts-1,
		retry.WithCappedDuration(maxConnectBackoff, retry.NewExponential(backoffBase)))

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if pingErr := pool.Ping(ctx); pingErr != nil {
			logger.WarnContext(ctx, "database not ready",
				"attempt", attempt,
				"max_attempts", attempts,
				"error", pingErr)
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping database").
			With("attempts", attempt).
			Wrap(err)
	}

	logger.InfoContext(ctx, "database connected",
		"max_conns", cfg.MaxConns,
		"attempts", attempt)
	return pool, nil
}
