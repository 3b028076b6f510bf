// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/qanda/internal/qa"
	"github.com/holomush/qanda/internal/store/memory"
	"github.com/holomush/qanda/internal/store/storetest"
)

func TestRepository_Contract(t *testing.T) {
	storetest.RunRepositoryContract(t, func(*testing.T) qa.Repository {
		return memory.New()
	})
}

func TestRepository_FrozenClockKeepsCreationOrder(t *testing.T) {
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := memory.New(memory.WithClock(func() time.Time { return frozen }))
	owner := storetest.MustAccount(t, repo)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := repo.CreateQuestion(ctx, qa.QuestionData{Title: title, Content: "x"}, owner.ID)
		require.NoError(t, err)
	}

	list, err := repo.ListQuestions(ctx, qa.Pagination{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].Title)
	assert.Equal(t, "a", list[2].Title)
}

func TestRepository_ReturnsCopies(t *testing.T) {
	repo := memory.New()
	owner := storetest.MustAccount(t, repo)
	ctx := context.Background()

	q, err := repo.CreateQuestion(ctx, qa.QuestionData{Title: "T", Content: "C", Tags: []string{"g"}}, owner.ID)
	require.NoError(t, err)
	q.Title = "mutated"
	q.Tags[0] = "mutated"

	got, err := repo.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, []string{"g"}, got.Tags)
}

func TestRepository_CancelledContext(t *testing.T) {
	repo := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.CreateAccount(ctx, "a@x.com", "$argon2id$x")
	require.ErrorIs(t, err, context.Canceled)

	_, err = repo.GetAccountByEmail(context.Background(), "a@x.com")
	require.Error(t, err, "cancelled insert must not be applied")
}

func TestRepository_ConcurrentRegistrationOfSameEmail(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateAccount(ctx, "race@x.com", "$argon2id$x")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}
