// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package qa

import "github.com/holomush/qanda/internal/auth"

// Store is the question and answer part of the repository.
type Store interface {
	QuestionRepository
	AnswerRepository
}

// Repository is the single interface to persisted accounts, questions and
// answers. internal/store implements it over PostgreSQL and
// internal/store/memory in memory.
type Repository interface {
	auth.AccountRepository
	Store
}
