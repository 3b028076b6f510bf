// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package qa

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Field limits for question and answer input.
const (
	MaxTitleLen   = 200
	MaxContentLen = 10000
	MaxTags       = 10
	MaxTagLen     = 50
)

// Question is a question owned by the account that created it.
type Question struct {
	ID        ulid.ULID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	AccountID ulid.ULID `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionData is the caller-supplied part of a question, used for both
// creation and full replacement on update. Nil Tags means no tags.
type QuestionData struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// Validate checks field presence and limits. Tags must be unique.
func (d QuestionData) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return invalidInput("title", "title cannot be empty")
	}
	if len(d.Title) > MaxTitleLen {
		return invalidInput("title", "title exceeds %d characters", MaxTitleLen)
	}
	if err := validateContent(d.Content); err != nil {
		return err
	}
	if len(d.Tags) > MaxTags {
		return invalidInput("tags", "at most %d tags allowed", MaxTags)
	}
	seen := make(map[string]struct{}, len(d.Tags))
	for _, tag := range d.Tags {
		if strings.TrimSpace(tag) == "" {
			return invalidInput("tags", "tags cannot be empty")
		}
		if len(tag) > MaxTagLen {
			return invalidInput("tags", "tag exceeds %d characters", MaxTagLen)
		}
		if _, dup := seen[tag]; dup {
			return invalidInput("tags", "duplicate tag %q", tag)
		}
		seen[tag] = struct{}{}
	}
	return nil
}

// QuestionRepository manages question persistence.
type QuestionRepository interface {
	// CreateQuestion stores a question owned by owner and returns it with
	// its store-assigned ID and creation time.
	CreateQuestion(ctx context.Context, data QuestionData, owner ulid.ULID) (*Question, error)

	// GetQuestion retrieves a question by ID.
	// Returns an error wrapping errutil.ErrNotFound if it does not exist.
	GetQuestion(ctx context.Context, id ulid.ULID) (*Question, error)

	// ListQuestions returns questions newest first. A nil page limit means no cap.
	ListQuestions(ctx context.Context, page Pagination) ([]*Question, error)

	// UpdateQuestion replaces title, content and tags in one statement.
	// Ownership is not checked here; callers go through OwnershipGuard.
	UpdateQuestion(ctx context.Context, id ulid.ULID, data QuestionData) (*Question, error)

	// DeleteQuestion removes a question and its answers.
	DeleteQuestion(ctx context.Context, id ulid.ULID) error

	// IsQuestionOwner reports whether accountID owns the question.
	// A missing question is reported as false, not as an error.
	IsQuestionOwner(ctx context.Context, id, accountID ulid.ULID) (bool, error)
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return invalidInput("content", "content cannot be empty")
	}
	if len(content) > MaxContentLen {
		return invalidInput("content", "content exceeds %d characters", MaxContentLen)
	}
	return nil
}

func invalidInput(field, format string, args ...any) error {
	return oops.Code("QA_INVALID_INPUT").With("field", field).Errorf(format, args...)
}
