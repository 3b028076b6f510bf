// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package qa

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Answer is a reply to a question, owned by the account that created it.
type Answer struct {
	ID         ulid.ULID `json:"id"`
	Content    string    `json:"content"`
	AccountID  ulid.ULID `json:"account_id"`
	QuestionID ulid.ULID `json:"question_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnswerData is the caller-supplied part of a new answer.
type AnswerData struct {
	Content    string    `json:"content"`
	QuestionID ulid.ULID `json:"question_id"`
}

// Validate checks field presence and limits.
func (d AnswerData) Validate() error {
	if d.QuestionID.IsZero() {
		return invalidInput("question_id", "question_id is required")
	}
	return validateContent(d.Content)
}

// AnswerRepository manages answer persistence.
type AnswerRepository interface {
	// CreateAnswer stores an answer owned by owner.
	// Fails with ANSWER_QUESTION_NOT_FOUND if the parent question does not exist.
	CreateAnswer(ctx context.Context, data AnswerData, owner ulid.ULID) (*Answer, error)

	// UpdateAnswer replaces the answer content.
	// Returns an error wrapping errutil.ErrNotFound if it does not exist.
	UpdateAnswer(ctx context.Context, id ulid.ULID, content string) (*Answer, error)

	// IsAnswerOwner reports whether accountID owns the answer.
	// A missing answer is reported as false, not as an error.
	IsAnswerOwner(ctx context.Context, id, accountID ulid.ULID) (bool, error)
}
