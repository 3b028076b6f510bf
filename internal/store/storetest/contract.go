// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package storetest provides the behavioral contract every qa.Repository
// implementation must satisfy.
package storetest

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/qanda/internal/auth"
	"github.com/holomush/qanda/internal/qa"
	"github.com/holomush/qanda/pkg/errutil"
)

// Factory returns an empty repository for one subtest.
type Factory func(t *testing.T) qa.Repository

// RunRepositoryContract runs the contract against repositories from newRepo.
func RunRepositoryContract(t *testing.T, newRepo Factory) {
	t.Helper()

	t.Run("accounts", func(t *testing.T) { testAccounts(t, newRepo(t)) })
	t.Run("question round trip", func(t *testing.T) { testQuestionRoundTrip(t, newRepo(t)) })
	t.Run("list questions", func(t *testing.T) { testListQuestions(t, newRepo(t)) })
	t.Run("update and delete question", func(t *testing.T) { testUpdateDeleteQuestion(t, newRepo(t)) })
	t.Run("question ownership", func(t *testing.T) { testQuestionOwnership(t, newRepo(t)) })
	t.Run("answers", func(t *testing.T) { testAnswers(t, newRepo(t)) })
}

// MustAccount creates an account with a unique email.
func MustAccount(t *testing.T, repo auth.AccountRepository) *auth.Account {
	t.Helper()
	account, err := repo.CreateAccount(context.Background(), ulid.Make().String()+"@example.com", "$argon2id$test")
	require.NoError(t, err)
	return account
}

func testAccounts(t *testing.T, repo qa.Repository) {
	ctx := context.Background()

	created, err := repo.CreateAccount(ctx, "a@x.com", "$argon2id$first")
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "a@x.com", created.Email)
	assert.Equal(t, "$argon2id$first", created.PasswordHash)

	got, err := repo.GetAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.PasswordHash, got.PasswordHash)

	_, err = repo.CreateAccount(ctx, "a@x.com", "$argon2id$second")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ACCOUNT_EMAIL_TAKEN")
	assert.ErrorIs(t, err, errutil.ErrConflict)

	// the first row is untouched
	got, err = repo.GetAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "$argon2id$first", got.PasswordHash)

	_, err = repo.GetAccountByEmail(ctx, "missing@x.com")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ACCOUNT_NOT_FOUND")
	assert.ErrorIs(t, err, errutil.ErrNotFound)
}

func testQuestionRoundTrip(t *testing.T, repo qa.Repository) {
	ctx := context.Background()
	owner := MustAccount(t, repo)

	created, err := repo.CreateQuestion(ctx, qa.QuestionData{Title: "T", Content: "C", Tags: []string{"g", "go"}}, owner.ID)
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, owner.ID, created.AccountID)

	got, err := repo.GetQuestion(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "C", got.Content)
	assert.Equal(t, []string{"g", "go"}, got.Tags)
	assert.Equal(t, owner.ID, got.AccountID)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)

	untagged, err := repo.CreateQuestion(ctx, qa.QuestionData{Title: "T2", Content: "C2"}, owner.ID)
	require.NoError(t, err)
	got, err = repo.GetQuestion(ctx, untagged.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Tags)

	emptyTags, err := repo.CreateQuestion(ctx, qa.QuestionData{Title: "T3", Content: "C3", Tags: []string{}}, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, emptyTags.Tags)
	got, err = repo.GetQuestion(ctx, emptyTags.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Tags)

	updated, err := repo.UpdateQuestion(ctx, emptyTags.ID, qa.QuestionData{Title: "T3", Content: "C3", Tags: []string{}})
	require.NoError(t, err)
	assert.Nil(t, updated.Tags)

	_, err = repo.GetQuestion(ctx, ulid.Make())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "QUESTION_NOT_FOUND")
	assert.ErrorIs(t, err, errutil.ErrNotFound)
}

func testListQuestions(t *testing.T, repo qa.Repository) {
	ctx := context.Background()
	owner := MustAccount(t, repo)

	empty, err := repo.ListQuestions(ctx, qa.Pagination{})
	require.NoError(t, err)
	assert.Empty(t, empty)

	var ids []ulid.ULID
	for _, title := range []string{"first", "second", "third"} {
		q, err := repo.CreateQuestion(ctx, qa.QuestionData{Title: title, Content: "c"}, owner.ID)
		require.NoError(t, err)
		ids = append(ids, q.ID)
	}

	all, err := repo.ListQuestions(ctx, qa.Pagination{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"third", "second", "first"}, titles(all))

	page, err := repo.ListQuestions(ctx, qa.Page(1, 1))
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ID)

	page, err = repo.ListQuestions(ctx, qa.Page(2, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second"}, titles(page))

	page, err = repo.ListQuestions(ctx, qa.Page(10, 5))
	require.NoError(t, err)
	assert.Empty(t, page)

	page, err = repo.ListQuestions(ctx, qa.Pagination{Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, titles(page))

	page, err = repo.ListQuestions(ctx, qa.Page(math.MaxInt, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, titles(page))
}

func testUpdateDeleteQuestion(t *testing.T, repo qa.Repository) {
	ctx := context.Background()
	owner := MustAccount(t, repo)

	q, err := repo.CreateQuestion(ctx, qa.QuestionData{Title: "T", Content: "C", Tags: []string{"g"}}, owner.ID)
	require.NoError(t, err)

	updated, err := repo.UpdateQuestion(ctx, q.ID, qa.QuestionData{Title: "T2", Content: "C2"})
	require.NoError(t, err)
	assert.Equal(t, q.ID, updated.ID)
	assert.Equal(t, owner.ID, updated.AccountID)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, "C2", updated.Content)
	assert.Empty(t, updated.Tags)

	got, err := repo.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "C2", got.Content)

	_, err = repo.UpdateQuestion(ctx, ulid.Make(), qa.QuestionData{Title: "x", Content: "y"})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "QUESTION_NOT_FOUND")

	answer, err := repo.CreateAnswer(ctx, qa.AnswerData{Content: "A", QuestionID: q.ID}, owner.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteQuestion(ctx, q.ID))

	_, err = repo.GetQuestion(ctx, q.ID)
	errutil.AssertErrorCode(t, err, "QUESTION_NOT_FOUND")

	owns, err := repo.IsAnswerOwner(ctx, answer.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, owns, "answers are removed with their question")

	err = repo.DeleteQuestion(ctx, q.ID)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "QUESTION_NOT_FOUND")
}

func testQuestionOwnership(t *testing.T, repo qa.Repository) {
	ctx := context.Background()
	a := MustAccount(t, repo)
	b := MustAccount(t, repo)

	q, err := repo.CreateQuestion(ctx, qa.QuestionData{Title: "T", Content: "C"}, a.ID)
	require.NoError(t, err)

	owns, err := repo.IsQuestionOwner(ctx, q.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = repo.IsQuestionOwner(ctx, q.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, owns)

	owns, err = repo.IsQuestionOwner(ctx, ulid.Make(), a.ID)
	require.NoError(t, err, "missing question is not an error")
	assert.False(t, owns)
}

func testAnswers(t *testing.T, repo qa.Repository) {
	ctx := context.Background()
	a := MustAccount(t, repo)
	b := MustAccount(t, repo)

	q, err := repo.CreateQuestion(ctx, qa.QuestionData{Title: "T", Content: "C"}, a.ID)
	require.NoError(t, err)

	_, err = repo.CreateAnswer(ctx, qa.AnswerData{Content: "A", QuestionID: ulid.Make()}, b.ID)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ANSWER_QUESTION_NOT_FOUND")
	assert.ErrorIs(t, err, errutil.ErrNotFound)

	answer, err := repo.CreateAnswer(ctx, qa.AnswerData{Content: "A", QuestionID: q.ID}, b.ID)
	require.NoError(t, err)
	assert.False(t, answer.ID.IsZero())
	assert.Equal(t, b.ID, answer.AccountID)
	assert.Equal(t, q.ID, answer.QuestionID)

	owns, err := repo.IsAnswerOwner(ctx, answer.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = repo.IsAnswerOwner(ctx, answer.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, owns, "question owner does not own answers to it")

	owns, err = repo.IsAnswerOwner(ctx, ulid.Make(), b.ID)
	require.NoError(t, err)
	assert.False(t, owns)

	updated, err := repo.UpdateAnswer(ctx, answer.ID, "A2")
	require.NoError(t, err)
	assert.Equal(t, answer.ID, updated.ID)
	assert.Equal(t, "A2", updated.Content)
	assert.Equal(t, q.ID, updated.QuestionID)
	assert.Equal(t, b.ID, updated.AccountID)

	_, err = repo.UpdateAnswer(ctx, ulid.Make(), "x")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ANSWER_NOT_FOUND")
}

func titles(questions []*qa.Question) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.Title)
	}
	return out
}
