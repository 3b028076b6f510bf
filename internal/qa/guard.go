// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package qa

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/qanda/internal/auth"
)

// Resource names an owned resource type.
type Resource string

// Owned resource types.
const (
	ResourceQuestion Resource = "question"
	ResourceAnswer   Resource = "answer"
)

// OwnershipChecker answers ownership queries. Missing resources report false.
type OwnershipChecker interface {
	IsQuestionOwner(ctx context.Context, id, accountID ulid.ULID) (bool, error)
	IsAnswerOwner(ctx context.Context, id, accountID ulid.ULID) (bool, error)
}

// OwnershipGuard is the mandatory pre-condition for every update and delete.
type OwnershipGuard struct {
	owners OwnershipChecker
}

// NewOwnershipGuard creates an OwnershipGuard.
func NewOwnershipGuard(owners OwnershipChecker) (*OwnershipGuard, error) {
	if owners == nil {
		return nil, oops.Errorf("ownership checker is required")
	}
	return &OwnershipGuard{owners: owners}, nil
}

// IsOwner reports whether accountID owns the resource.
func (g *OwnershipGuard) IsOwner(ctx context.Context, resource Resource, id, accountID ulid.ULID) (bool, error) {
	if accountID.IsZero() {
		return false, nil
	}
	switch resource {
	case ResourceQuestion:
		return g.owners.IsQuestionOwner(ctx, id, accountID)
	case ResourceAnswer:
		return g.owners.IsAnswerOwner(ctx, id, accountID)
	default:
		return false, oops.Code("QA_UNKNOWN_RESOURCE").With("resource", string(resource)).Errorf("unknown resource type")
	}
}

// Authorize returns nil only if the session's account owns the resource.
// Missing resources fail the same way as foreign ones.
func (g *OwnershipGuard) Authorize(ctx context.Context, resource Resource, id ulid.ULID, session auth.Session) error {
	owner, err := g.IsOwner(ctx, resource, id, session.AccountID)
	if err != nil {
		return oops.Code("QA_OWNERSHIP_CHECK_FAILED").
			With("resource", string(resource)).
			With("resource_id", id.String()).
			Wrap(err)
	}
	if !owner {
		return oops.Code("AUTH_NOT_OWNER").
			With("resource", string(resource)).
			With("resource_id", id.String()).
			With("account_id", session.AccountID.String()).
			Errorf("account does not own this %s", resource)
	}
	return nil
}

// GuardAndMutate runs mutate only after the guard confirms ownership.
func GuardAndMutate[T any](
	ctx context.Context,
	guard *OwnershipGuard,
	resource Resource,
	id ulid.ULID,
	session auth.Session,
	mutate func(context.Context) (T, error),
) (T, error) {
	if err := guard.Authorize(ctx, resource, id, session); err != nil {
		var zero T
		return zero, err
	}
	return mutate(ctx)
}
