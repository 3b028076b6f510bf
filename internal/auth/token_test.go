// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/qanda/internal/auth"
	"github.com/holomush/qanda/pkg/errutil"
)

var testTokenKey = []byte("0123456789abcdef0123456789abcdef")

func newTestCodec(t *testing.T, opts ...auth.TokenCodecOption) *auth.SealedTokenCodec {
	t.Helper()
	codec, err := auth.NewSealedTokenCodec(testTokenKey, opts...)
	require.NoError(t, err)
	return codec
}

func TestNewSealedTokenCodec(t *testing.T) {
	t.Run("rejects short secret", func(t *testing.T) {
		codec, err := auth.NewSealedTokenCodec([]byte("too-short"))
		require.Error(t, err)
		assert.Nil(t, codec)
		errutil.AssertErrorCode(t, err, "TOKEN_KEY_INVALID")
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		codec, err := auth.NewSealedTokenCodec(testTokenKey, auth.WithTokenTTL(0))
		require.Error(t, err)
		assert.Nil(t, codec)
		errutil.AssertErrorCode(t, err, "TOKEN_TTL_INVALID")
	})
}

func TestSealedTokenCodec_IssueDecode(t *testing.T) {
	codec := newTestCodec(t)
	accountID := ulid.Make()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	token, err := codec.Issue(accountID, now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v1.local."))
	assert.NotContains(t, token, accountID.String(), "claims must be encrypted")

	t.Run("decodes inside window", func(t *testing.T) {
		session, err := codec.Decode(token, now.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, accountID, session.AccountID)
		assert.True(t, session.NotBefore.Equal(now))
		assert.True(t, session.ExpiresAt.Equal(now.Add(auth.DefaultTokenTTL)))
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		_, err := codec.Decode(token, now)
		require.NoError(t, err)
		_, err = codec.Decode(token, now.Add(auth.DefaultTokenTTL))
		require.NoError(t, err)
	})

	t.Run("rejects before not_before", func(t *testing.T) {
		_, err := codec.Decode(token, now.Add(-time.Second))
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_NOT_YET_VALID")
		errutil.AssertKind(t, err, errutil.KindUnauthorized)
	})

	t.Run("rejects after expiry", func(t *testing.T) {
		_, err := codec.Decode(token, now.Add(auth.DefaultTokenTTL+time.Nanosecond))
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_EXPIRED")
		errutil.AssertKind(t, err, errutil.KindUnauthorized)
	})

	t.Run("fresh nonce per token", func(t *testing.T) {
		again, err := codec.Issue(accountID, now)
		require.NoError(t, err)
		assert.NotEqual(t, token, again)
	})
}

func TestSealedTokenCodec_CustomTTL(t *testing.T) {
	codec := newTestCodec(t, auth.WithTokenTTL(time.Minute))
	now := time.Now()

	token, err := codec.Issue(ulid.Make(), now)
	require.NoError(t, err)

	_, err = codec.Decode(token, now.Add(59*time.Second))
	require.NoError(t, err)

	_, err = codec.Decode(token, now.Add(61*time.Second))
	errutil.AssertErrorCode(t, err, "TOKEN_EXPIRED")
}

func TestSealedTokenCodec_RejectsTampering(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Now()

	token, err := codec.Issue(ulid.Make(), now)
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(token, "v1.local."))
	require.NoError(t, err)

	for i := range raw {
		for bit := 0; bit < 8; bit++ {
			flipped := make([]byte, len(raw))
			copy(flipped, raw)
			flipped[i] ^= 1 << bit

			tampered := "v1.local." + base64.RawURLEncoding.EncodeToString(flipped)
			_, err := codec.Decode(tampered, now)
			require.Error(t, err, "byte %d bit %d", i, bit)
			errutil.AssertErrorCode(t, err, "TOKEN_INVALID")
		}
	}
}

func TestSealedTokenCodec_RejectsForeignKey(t *testing.T) {
	issuer := newTestCodec(t)
	other, err := auth.NewSealedTokenCodec([]byte("another-secret-another-secret-xx"))
	require.NoError(t, err)

	now := time.Now()
	token, err := issuer.Issue(ulid.Make(), now)
	require.NoError(t, err)

	_, err = other.Decode(token, now)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "TOKEN_INVALID")
}

func TestSealedTokenCodec_RejectsMalformed(t *testing.T) {
	codec := newTestCodec(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "unknown header", token: "v2.local.AAAA"},
		{name: "invalid base64", token: "v1.local.!!!"},
		{name: "too short", token: "v1.local." + base64.RawURLEncoding.EncodeToString([]byte("short"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.token, time.Now())
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "TOKEN_MALFORMED")
			errutil.AssertKind(t, err, errutil.KindUnauthorized)
		})
	}
}

func TestSealedTokenCodec_IssueRequiresAccount(t *testing.T) {
	codec := newTestCodec(t)
	_, err := codec.Issue(ulid.ULID{}, time.Now())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "TOKEN_ISSUE_FAILED")
}

func TestSession_ValidAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := auth.Session{AccountID: ulid.Make(), NotBefore: start, ExpiresAt: start.Add(time.Hour)}

	assert.True(t, s.ValidAt(start))
	assert.True(t, s.ValidAt(start.Add(30*time.Minute)))
	assert.True(t, s.ValidAt(start.Add(time.Hour)))
	assert.False(t, s.ValidAt(start.Add(-time.Second)))
	assert.False(t, s.ValidAt(start.Add(time.Hour+time.Second)))

	inverted := auth.Session{NotBefore: start, ExpiresAt: start}
	assert.False(t, inverted.ValidAt(start))
}
