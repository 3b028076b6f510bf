// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package store provides the PostgreSQL repository, connection setup and
// schema migrations.
package store

import (
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/qanda/internal/qa"
)

// Constraint names from the migrations, used to classify violations.
const (
	accountsEmailKey  = "accounts_email_key"
	answersQuestionFK = "answers_question_fk"
)

// PostgresRepository implements qa.Repository using PostgreSQL.
type PostgresRepository struct {
	pool poolIface
	now  func() time.Time
}

// Option configures a PostgresRepository.
type Option func(*PostgresRepository)

// WithClock sets the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *PostgresRepository) {
		r.now = now
	}
}

// NewPostgresRepository creates a PostgresRepository over pool.
func NewPostgresRepository(pool poolIface, opts ...Option) *PostgresRepository {
	r := &PostgresRepository{pool: pool, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// createdAt returns the current time at the precision PostgreSQL stores, so
// returned rows equal what a later read yields.
func (r *PostgresRepository) createdAt() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// constraintViolation reports the violated constraint name if err is a
// PostgreSQL error with the given SQLSTATE.
func constraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func isUniqueViolation(err error, constraint string) bool {
	name, ok := constraintViolation(err, pgerrcode.UniqueViolation)
	return ok && name == constraint
}

func isForeignKeyViolation(err error, constraint string) bool {
	name, ok := constraintViolation(err, pgerrcode.ForeignKeyViolation)
	return ok && name == constraint
}

func parseID(field, raw string) (ulid.ULID, error) {
	id, err := ulid.Parse(raw)
	if err != nil {
		return ulid.ULID{}, oops.Code("STORE_CORRUPT_ID").
			With("operation", "parse "+field).
			With(field, raw).
			Wrap(err)
	}
	return id, nil
}

var _ qa.Repository = (*PostgresRepository)(nil)
