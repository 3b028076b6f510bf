// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"strings"
	"time"

	"github.com/samber/oops"
)

// SessionAuthenticator turns an Authorization header into a Session.
// It performs no I/O.
type SessionAuthenticator struct {
	codec TokenCodec
}

// NewSessionAuthenticator creates a SessionAuthenticator over codec.
func NewSessionAuthenticator(codec TokenCodec) (*SessionAuthenticator, error) {
	if codec == nil {
		return nil, oops.Errorf("token codec is required")
	}
	return &SessionAuthenticator{codec: codec}, nil
}

// Authenticate extracts the bearer token from header and decodes it at now.
// A codec failure keeps its detailed code (TOKEN_EXPIRED, TOKEN_INVALID)
// for diagnostics. Every failure classifies as unauthorized.
func (a *SessionAuthenticator) Authenticate(header string, now time.Time) (Session, error) {
	token, ok := BearerToken(header)
	if !ok {
		return Session{}, oops.Code("AUTH_UNAUTHORIZED").Errorf("missing bearer token")
	}

	session, err := a.codec.Decode(token, now)
	if err != nil {
		return Session{}, oops.Code("AUTH_UNAUTHORIZED").With("operation", "authenticate").Wrap(err)
	}
	return session, nil
}

// BearerToken extracts the token from an Authorization header value.
// Accepts "Bearer <token>" with any scheme casing, or a bare token.
func BearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	switch len(fields) {
	case 1:
		if strings.EqualFold(fields[0], "bearer") {
			return "", false
		}
		return fields[0], true
	case 2:
		if !strings.EqualFold(fields[0], "bearer") {
			return "", false
		}
		return fields[1], true
	default:
		return "", false
	}
}
