// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package qa

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/qanda/internal/auth"
)

// Service coordinates question and answer operations. Creations take the
// owner from the session; mutations go through the OwnershipGuard.
type Service struct {
	store  Store
	guard  *OwnershipGuard
	logger *slog.Logger
}

// NewService creates a Service over store.
func NewService(store Store, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, oops.Errorf("store is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	guard, err := NewOwnershipGuard(store)
	if err != nil {
		return nil, err
	}
	return &Service{store: store, guard: guard, logger: logger}, nil
}

// CreateQuestion stores a question owned by the session's account.
func (s *Service) CreateQuestion(ctx context.Context, session auth.Session, data QuestionData) (*Question, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	q, err := s.store.CreateQuestion(ctx, data, session.AccountID)
	if err != nil {
		return nil, oops.With("operation", "create question").Wrap(err)
	}
	s.logger.DebugContext(ctx, "question created",
		"question_id", q.ID.String(),
		"account_id", session.AccountID.String())
	return q, nil
}

// GetQuestion returns a question. Reads are not ownership-sensitive, so a
// missing question is reported as not found.
func (s *Service) GetQuestion(ctx context.Context, id ulid.ULID) (*Question, error) {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return nil, oops.With("operation", "get question").Wrap(err)
	}
	return q, nil
}

// ListQuestions returns questions newest first.
func (s *Service) ListQuestions(ctx context.Context, page Pagination) ([]*Question, error) {
	questions, err := s.store.ListQuestions(ctx, page)
	if err != nil {
		return nil, oops.With("operation", "list questions").Wrap(err)
	}
	return questions, nil
}

// UpdateQuestion replaces a question's fields if the session owns it.
func (s *Service) UpdateQuestion(ctx context.Context, session auth.Session, id ulid.ULID, data QuestionData) (*Question, error) {
	return GuardAndMutate(ctx, s.guard, ResourceQuestion, id, session, func(ctx context.Context) (*Question, error) {
		if err := data.Validate(); err != nil {
			return nil, err
		}
		q, err := s.store.UpdateQuestion(ctx, id, data)
		if err != nil {
			return nil, oops.With("operation", "update question").Wrap(err)
		}
		return q, nil
	})
}

// DeleteQuestion removes a question if the session owns it.
func (s *Service) DeleteQuestion(ctx context.Context, session auth.Session, id ulid.ULID) error {
	_, err := GuardAndMutate(ctx, s.guard, ResourceQuestion, id, session, func(ctx context.Context) (struct{}, error) {
		if err := s.store.DeleteQuestion(ctx, id); err != nil {
			return struct{}{}, oops.With("operation", "delete question").Wrap(err)
		}
		return struct{}{}, nil
	})
	if err == nil {
		s.logger.DebugContext(ctx, "question deleted",
			"question_id", id.String(),
			"account_id", session.AccountID.String())
	}
	return err
}

// CreateAnswer stores an answer owned by the session's account.
func (s *Service) CreateAnswer(ctx context.Context, session auth.Session, data AnswerData) (*Answer, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	a, err := s.store.CreateAnswer(ctx, data, session.AccountID)
	if err != nil {
		return nil, oops.With("operation", "create answer").Wrap(err)
	}
	return a, nil
}

// UpdateAnswer replaces an answer's content if the session owns it.
func (s *Service) UpdateAnswer(ctx context.Context, session auth.Session, id ulid.ULID, content string) (*Answer, error) {
	return GuardAndMutate(ctx, s.guard, ResourceAnswer, id, session, func(ctx context.Context) (*Answer, error) {
		if err := validateContent(content); err != nil {
			return nil, err
		}
		a, err := s.store.UpdateAnswer(ctx, id, content)
		if err != nil {
			return nil, oops.With("operation", "update answer").Wrap(err)
		}
		return a, nil
	})
}
