// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"errors"

	"github.com/samber/oops"
)

// Kind is the coarse, caller-facing classification of an error.
// Internal code works with oops codes; Kind is only computed at the
// boundary where a response is produced.
type Kind int

// Outward error kinds.
const (
	KindNone Kind = iota
	KindInvalid
	KindConflict
	KindWrongCredentials
	KindUnauthorized
	KindNotFound
	KindStoreError
)

// codeKinds maps detailed oops codes to their outward kind.
// Codes not listed here fall back to sentinel matching and then KindStoreError.
var codeKinds = map[string]Kind{
	// input validation
	"ACCOUNT_INVALID_EMAIL":         KindInvalid,
	"AUTH_EMPTY_PASSWORD":           KindInvalid,
	"QA_INVALID_INPUT":              KindInvalid,
	"PAGINATION_MISSING_PARAMETERS": KindInvalid,
	"PAGINATION_INVALID":            KindInvalid,
	"REQUEST_INVALID_BODY":          KindInvalid,

	// registration
	"ACCOUNT_EMAIL_TAKEN": KindConflict,

	// login: unknown email, wrong password and corrupt stored digest look the same
	"AUTH_INVALID_CREDENTIALS": KindWrongCredentials,
	"AUTH_INVALID_HASH":        KindWrongCredentials,
	"AUTH_CORRUPT_HASH":        KindWrongCredentials,

	// bearer tokens and ownership
	"AUTH_UNAUTHORIZED":   KindUnauthorized,
	"AUTH_NOT_OWNER":      KindUnauthorized,
	"TOKEN_MALFORMED":     KindUnauthorized,
	"TOKEN_INVALID":       KindUnauthorized,
	"TOKEN_EXPIRED":       KindUnauthorized,
	"TOKEN_NOT_YET_VALID": KindUnauthorized,

	// reads
	"ACCOUNT_NOT_FOUND":         KindNotFound,
	"QUESTION_NOT_FOUND":        KindNotFound,
	"ANSWER_NOT_FOUND":          KindNotFound,
	"ANSWER_QUESTION_NOT_FOUND": KindNotFound,
}

// KindOf classifies err. A nil error is KindNone; anything unrecognized is
// treated as a store failure so internal causes never leak as a more
// specific kind.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, ok := any(oopsErr.Code()).(string); ok {
			if kind, found := codeKinds[code]; found {
				return kind
			}
		}
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	}
	return KindStoreError
}

// Message returns the fixed outward message for the kind.
func (k Kind) Message() string {
	switch k {
	case KindNone:
		return ""
	case KindInvalid:
		return "invalid request"
	case KindConflict:
		return "entry already exists"
	case KindWrongCredentials:
		return "wrong email or password"
	case KindUnauthorized:
		return "no permission to perform this action"
	case KindNotFound:
		return "resource not found"
	default:
		return "internal server error"
	}
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalid:
		return "invalid"
	case KindConflict:
		return "conflict"
	case KindWrongCredentials:
		return "wrong_credentials"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	default:
		return "store_error"
	}
}
