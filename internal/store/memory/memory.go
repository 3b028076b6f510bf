// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package memory provides an in-memory qa.Repository for tests and local runs.
package memory

import (
	"context"
	"crypto/rand"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/qanda/internal/auth"
	"github.com/holomush/qanda/internal/qa"
	"github.com/holomush/qanda/pkg/errutil"
)

// Repository implements qa.Repository in memory. It is safe for concurrent
// use; every method is atomic with respect to the others.
type Repository struct {
	mu        sync.RWMutex
	accounts  map[ulid.ULID]*auth.Account
	byEmail   map[string]ulid.ULID
	questions map[ulid.ULID]*qa.Question
	answers   map[ulid.ULID]*qa.Answer
	entropy   *ulid.MonotonicEntropy
	now       func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock sets the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// New creates an empty Repository.
func New(opts ...Option) *Repository {
	r := &Repository{
		accounts:  make(map[ulid.ULID]*auth.Account),
		byEmail:   make(map[string]ulid.ULID),
		questions: make(map[ulid.ULID]*qa.Question),
		answers:   make(map[ulid.ULID]*qa.Answer),
		entropy:   ulid.Monotonic(rand.Reader, 0),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// newID must be called with mu held.
func (r *Repository) newID(at time.Time) ulid.ULID {
	return ulid.MustNew(ulid.Timestamp(at), r.entropy)
}

// CreateAccount stores a new account.
func (r *Repository) CreateAccount(ctx context.Context, email, passwordHash string) (*auth.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.With("operation", "create account").Wrap(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[email]; taken {
		return nil, oops.Code("ACCOUNT_EMAIL_TAKEN").With("email", email).Wrap(errutil.ErrConflict)
	}

	now := r.now().UTC()
	account := &auth.Account{
		ID:           r.newID(now),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
	r.accounts[account.ID] = account
	r.byEmail[email] = account.ID

	clone := *account
	return &clone, nil
}

// GetAccountByEmail retrieves an account by email.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.With("operation", "get account by email").Wrap(err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").With("email", email).Wrap(errutil.ErrNotFound)
	}
	clone := *r.accounts[id]
	return &clone, nil
}

// CreateQuestion stores a question owned by owner.
func (r *Repository) CreateQuestion(ctx context.Context, data qa.QuestionData, owner ulid.ULID) (*qa.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.With("operation", "create question").Wrap(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	q := &qa.Question{
		ID:        r.newID(now),
		Title:     data.Title,
		Content:   data.Content,
		Tags:      cloneTags(data.Tags),
		AccountID: owner,
		CreatedAt: now,
	}
	r.questions[q.ID] = q
	return cloneQuestion(q), nil
}

// GetQuestion retrieves a question by ID.
func (r *Repository) GetQuestion(ctx context.Context, id ulid.ULID) (*qa.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.With("operation", "get question").Wrap(err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.questions[id]
	if !ok {
		return nil, questionNotFound(id)
	}
	return cloneQuestion(q), nil
}

// ListQuestions returns questions newest first.
func (r *Repository) ListQuestions(ctx context.Context, page qa.Pagination) ([]*qa.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.With("operation", "list questions").Wrap(err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*qa.Question, 0, len(r.questions))
	for _, q := range r.questions {
		all = append(all, q)
	}
	slices.SortFunc(all, func(a, b *qa.Question) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.ID.Compare(a.ID)
	})

	start, end := page.Window(len(all))
	result := make([]*qa.Question, 0, end-start)
	for _, q := range all[start:end] {
		result = append(result, cloneQuestion(q))
	}
	return result, nil
}

// UpdateQuestion replaces title, content and tags.
func (r *Repository) UpdateQuestion(ctx context.Context, id ulid.ULID, data qa.QuestionData) (*qa.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.With("operation", "update question").Wrap(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.questions[id]
	if !ok {
		return nil, questionNotFound(id)
	}
	q.Title = data.Title
	q.Content = data.Content
	q.Tags = cloneTags(data.Tags)
	return cloneQuestion(q), nil
}

// DeleteQuestion removes a question and its answers.
func (r *Repository) DeleteQuestion(ctx context.Context, id ulid.ULID) error {
	if err := ctx.Err(); err != nil {
		return oops.With("operation", "delete question").Wrap(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.questions[id]; !ok {
		return questionNotFound(id)
	}
	delete(r.questions, id)
	for answerID, a := range r.answers {
		if a.QuestionID == id {
			delete(r.answers, answerID)
		}
	}
	return nil
}

// IsQuestionOwner reports whether accountID owns the question.
func (r *Repository) IsQuestionOwner(ctx context.Context, id, accountID ulid.ULID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, oops.With("operation", "check question owner").Wrap(err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.questions[id]
	return ok && q.AccountID == accountID, nil
}

// CreateAnswer stores an answer to an existing question.
func (r *Repository) CreateAnswer(ctx context.Context, data qa.AnswerData, owner ulid.ULID) (*qa.Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.With("operation", "create answer").Wrap(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.questions[data.QuestionID]; !ok {
		return nil, oops.Code("ANSWER_QUESTION_NOT_FOUND").
			With("question_id", data.QuestionID.String()).
			Wrap(errutil.ErrNotFound)
	}

	now := r.now().UTC()
	a := &qa.Answer{
		ID:         r.newID(now),
		Content:    data.Content,
		AccountID:  owner,
		QuestionID: data.QuestionID,
		CreatedAt:  now,
	}
	r.answers[a.ID] = a

	clone := *a
	return &clone, nil
}

// UpdateAnswer replaces the answer content.
func (r *Repository) UpdateAnswer(ctx context.Context, id ulid.ULID, content string) (*qa.Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.With("operation", "update answer").Wrap(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.answers[id]
	if !ok {
		return nil, oops.Code("ANSWER_NOT_FOUND").With("answer_id", id.String()).Wrap(errutil.ErrNotFound)
	}
	a.Content = content

	clone := *a
	return &clone, nil
}

// IsAnswerOwner reports whether accountID owns the answer.
func (r *Repository) IsAnswerOwner(ctx context.Context, id, accountID ulid.ULID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, oops.With("operation", "check answer owner").Wrap(err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.answers[id]
	return ok && a.AccountID == accountID, nil
}

func questionNotFound(id ulid.ULID) error {
	return oops.Code("QUESTION_NOT_FOUND").With("question_id", id.String()).Wrap(errutil.ErrNotFound)
}

func cloneQuestion(q *qa.Question) *qa.Question {
	clone := *q
	clone.Tags = cloneTags(q.Tags)
	return &clone
}

// cloneTags copies tags; an empty list is stored as absent.
func cloneTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	return slices.Clone(tags)
}

var _ qa.Repository = (*Repository)(nil)
