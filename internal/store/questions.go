// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/qanda/internal/qa"
	"github.com/holomush/qanda/pkg/errutil"
)

const questionColumns = `id, title, content, tags, account_id, created_at`

// CreateQuestion stores a question owned by owner.
func (r *PostgresRepository) CreateQuestion(ctx context.Context, data qa.QuestionData, owner ulid.ULID) (*qa.Question, error) {
	q := &qa.Question{
		ID:        ulid.Make(),
		Title:     data.Title,
		Content:   data.Content,
		Tags:      cloneTags(data.Tags),
		AccountID: owner,
		CreatedAt: r.createdAt(),
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO questions (id, title, content, tags, account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, q.ID.String(), q.Title, q.Content, tagsArg(q.Tags), owner.String(), q.CreatedAt)
	if err != nil {
		return nil, oops.Code("QUESTION_CREATE_FAILED").
			With("operation", "insert question").
			With("account_id", owner.String()).
			Wrap(err)
	}
	return q, nil
}

// GetQuestion retrieves a question by ID.
func (r *PostgresRepository) GetQuestion(ctx context.Context, id ulid.ULID) (*qa.Question, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id.String())
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, questionNotFound(id)
	}
	if err != nil {
		return nil, oops.Code("QUESTION_GET_FAILED").
			With("operation", "get question").
			With("question_id", id.String()).
			Wrap(err)
	}
	return q, nil
}

// ListQuestions returns questions newest first. A nil limit becomes
// LIMIT NULL, which PostgreSQL treats as no limit.
func (r *PostgresRepository) ListQuestions(ctx context.Context, page qa.Pagination) ([]*qa.Question, error) {
	var limit any
	if page.Limit != nil {
		limit = *page.Limit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, page.Offset)
	if err != nil {
		return nil, oops.Code("QUESTION_LIST_FAILED").With("operation", "list questions").Wrap(err)
	}
	defer rows.Close()

	questions := make([]*qa.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, oops.Code("QUESTION_LIST_FAILED").With("operation", "scan question row").Wrap(err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("QUESTION_LIST_FAILED").With("operation", "iterate questions").Wrap(err)
	}
	return questions, nil
}

// UpdateQuestion replaces title, content and tags in one statement.
func (r *PostgresRepository) UpdateQuestion(ctx context.Context, id ulid.ULID, data qa.QuestionData) (*qa.Question, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE questions
		SET title = $2, content = $3, tags = $4
		WHERE id = $1
		RETURNING `+questionColumns,
		id.String(), data.Title, data.Content, tagsArg(data.Tags))
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, questionNotFound(id)
	}
	if err != nil {
		return nil, oops.Code("QUESTION_UPDATE_FAILED").
			With("operation", "update question").
			With("question_id", id.String()).
			Wrap(err)
	}
	return q, nil
}

// DeleteQuestion removes a question. Its answers go with it through the
// foreign key cascade.
func (r *PostgresRepository) DeleteQuestion(ctx context.Context, id ulid.ULID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("QUESTION_DELETE_FAILED").
			With("operation", "delete question").
			With("question_id", id.String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return questionNotFound(id)
	}
	return nil
}

// IsQuestionOwner reports whether accountID owns the question.
func (r *PostgresRepository) IsQuestionOwner(ctx context.Context, id, accountID ulid.ULID) (bool, error) {
	var owns bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM questions WHERE id = $1 AND account_id = $2)
	`, id.String(), accountID.String()).Scan(&owns)
	if err != nil {
		return false, oops.Code("QUESTION_OWNER_CHECK_FAILED").
			With("question_id", id.String()).
			Wrap(err)
	}
	return owns, nil
}

func questionNotFound(id ulid.ULID) error {
	return oops.Code("QUESTION_NOT_FOUND").
		With("question_id", id.String()).
		Wrap(errutil.ErrNotFound)
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*qa.Question, error) {
	var (
		q           qa.Question
		id, ownerID string
		tags        []string
	)
	if err := row.Scan(&id, &q.Title, &q.Content, &tags, &ownerID, &q.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if q.ID, err = parseID("question_id", id); err != nil {
		return nil, err
	}
	if q.AccountID, err = parseID("account_id", ownerID); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		q.Tags = tags
	}
	return &q, nil
}

// tagsArg never passes NULL for the NOT NULL tags column.
func tagsArg(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func cloneTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	return append([]string(nil), tags...)
}
