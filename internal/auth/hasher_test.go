// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"

	"github.com/holomush/qanda/internal/auth"
	"github.com/holomush/qanda/pkg/errutil"
)

func TestArgon2idHasher_Hash(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	t.Run("produces PHC digest with embedded parameters", func(t *testing.T) {
		digest, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(digest, "$argon2id$v=19$m=65536,t=1,p=4$"))
		assert.Len(t, strings.Split(digest, "$"), 6)
	})

	t.Run("same password produces different digests (salt)", func(t *testing.T) {
		digest1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		digest2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, digest1, digest2)

		salt1 := strings.Split(digest1, "$")[4]
		salt2 := strings.Split(digest2, "$")[4]
		assert.NotEqual(t, salt1, salt2)
	})

	t.Run("digest does not contain plaintext", func(t *testing.T) {
		digest, err := hasher.Hash("visible-secret")
		require.NoError(t, err)
		assert.NotContains(t, digest, "visible-secret")
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_EMPTY_PASSWORD")
	})
}

func TestArgon2idHasher_Verify(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	t.Run("correct password verifies", func(t *testing.T) {
		digest, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify("correctpassword", digest)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("incorrect password is a mismatch, not an error", func(t *testing.T) {
		digest, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify("wrongpassword", digest)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("verifies with parameters read from the digest", func(t *testing.T) {
		salt := []byte("somesaltsomesalt")
		key := argon2.IDKey([]byte("password"), salt, 2, 1024, 1, 24)
		digest := fmt.Sprintf("$argon2id$v=19$m=1024,t=2,p=1$%s$%s",
			base64.RawStdEncoding.EncodeToString(salt),
			base64.RawStdEncoding.EncodeToString(key))

		ok, err := hasher.Verify("password", digest)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = hasher.Verify("Password", digest)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	malformed := []struct {
		name   string
		digest string
		errMsg string
	}{
		{name: "not a PHC string", digest: "not-a-valid-hash"},
		{name: "empty digest", digest: ""},
		{name: "wrong algorithm", digest: "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA", errMsg: "unsupported hash algorithm"},
		{name: "bcrypt digest", digest: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIvNq.Uf3hE9tQALNP1Qn9sNp5x5x5x5"},
		{name: "invalid version format", digest: "$argon2id$vXX$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{name: "unsupported version", digest: "$argon2id$v=16$m=65536,t=1,p=4$c2FsdA$aGFzaA", errMsg: "unsupported argon2 version"},
		{name: "invalid parameters format", digest: "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{name: "zero memory", digest: "$argon2id$v=19$m=0,t=1,p=4$c2FsdA$aGFzaA"},
		{name: "invalid salt base64", digest: "$argon2id$v=19$m=65536,t=1,p=4$!!!invalid!!!$aGFzaA"},
		{name: "invalid hash base64", digest: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!invalid!!!"},
		{name: "empty key", digest: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$"},
		{name: "threads overflow", digest: "$argon2id$v=19$m=65536,t=1,p=256$c2FsdA$aGFzaA", errMsg: "threads value"},
	}

	for _, tt := range malformed {
		t.Run("malformed: "+tt.name, func(t *testing.T) {
			ok, err := hasher.Verify("password", tt.digest)
			require.Error(t, err)
			assert.False(t, ok)
			errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}
