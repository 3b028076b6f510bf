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

const answerColumns = `id, content, account_id, question_id, created_at`

// CreateAnswer stores an answer owned by owner. A missing parent question
// surfaces as a foreign key violation.
func (r *PostgresRepository) CreateAnswer(ctx context.Context, data qa.AnswerData, owner ulid.ULID) (*qa.Answer, error) {
	a := &qa.Answer{
		ID:         ulid.Make(),
		Content:    data.Content,
		AccountID:  owner,
		QuestionID: data.QuestionID,
		CreatedAt:  r.createdAt(),
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO answers (id, content, account_id, question_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID.String(), a.Content, owner.String(), data.QuestionID.String(), a.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err, answersQuestionFK) {
			return nil, oops.Code("ANSWER_QUESTION_NOT_FOUND").
				With("question_id", data.QuestionID.String()).
				Wrap(errutil.ErrNotFound)
		}
		return nil, oops.Code("ANSWER_CREATE_FAILED").
			With("operation", "insert answer").
			With("question_id", data.QuestionID.String()).
			Wrap(err)
	}
	return a, nil
}

// UpdateAnswer replaces the answer content.
func (r *PostgresRepository) UpdateAnswer(ctx context.Context, id ulid.ULID, content string) (*qa.Answer, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE answers
		SET content = $2
		WHERE id = $1
		RETURNING `+answerColumns,
		id.String(), content)
	a, err := scanAnswer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ANSWER_NOT_FOUND").
			With("answer_id", id.String()).
			Wrap(errutil.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ANSWER_UPDATE_FAILED").
			With("operation", "update answer").
			With("answer_id", id.String()).
			Wrap(err)
	}
	return a, nil
}

// IsAnswerOwner reports whether accountID owns the answer.
func (r *PostgresRepository) IsAnswerOwner(ctx context.Context, id, accountID ulid.ULID) (bool, error) {
	var owns bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM answers WHERE id = $1 AND account_id = $2)
	`, id.String(), accountID.String()).Scan(&owns)
	if err != nil {
		return false, oops.Code("ANSWER_OWNER_CHECK_FAILED").
			With("answer_id", id.String()).
			Wrap(err)
	}
	return owns, nil
}

func scanAnswer(row rowScanner) (*qa.Answer, error) {
	var (
		a                       qa.Answer
		id, ownerID, questionID string
	)
	if err := row.Scan(&id, &a.Content, &ownerID, &questionID, &a.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if a.ID, err = parseID("answer_id", id); err != nil {
		return nil, err
	}
	if a.AccountID, err = parseID("account_id", ownerID); err != nil {
		return nil, err
	}
	if a.QuestionID, err = parseID("question_id", questionID); err != nil {
		return nil, err
	}
	return &a, nil
}
