// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// DefaultTokenTTL is how long an issued session token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// MinTokenKeyLen is the minimum length of the token secret in bytes.
const MinTokenKeyLen = 32

// tokenHeader versions the token format and is bound into the ciphertext
// as additional data, so a token cannot be replayed under another header.
const tokenHeader = "v1.local."

// tokenKeyInfo is the HKDF info string for deriving the sealing key.
const tokenKeyInfo = "qanda session token v1"

// Session is the identity evidence carried by a valid token.
// It is never persisted and holds no ownership relation.
type Session struct {
	AccountID ulid.ULID
	NotBefore time.Time
	ExpiresAt time.Time
}

// ValidAt reports whether now lies inside the session's validity window.
func (s Session) ValidAt(now time.Time) bool {
	return s.ExpiresAt.After(s.NotBefore) && !now.Before(s.NotBefore) && !now.After(s.ExpiresAt)
}

// TokenCodec issues and decodes self-contained session tokens.
type TokenCodec interface {
	// Issue produces a token for the account, valid from now until now plus the TTL.
	Issue(accountID ulid.ULID, now time.Time) (string, error)

	// Decode authenticates the token and returns its session if now lies
	// within the validity window.
	Decode(token string, now time.Time) (Session, error)
}

// tokenClaims is the sealed payload.
type tokenClaims struct {
	AccountID string    `json:"account_id"`
	NotBefore time.Time `json:"nbf"`
	ExpiresAt time.Time `json:"exp"`
}

// SealedTokenCodec implements TokenCodec with XChaCha20-Poly1305 under a key
// derived once from the process secret. It is safe for concurrent use.
type SealedTokenCodec struct {
	aead cipher.AEAD
	ttl  time.Duration
}

// TokenCodecOption configures a SealedTokenCodec.
type TokenCodecOption func(*SealedTokenCodec)

// WithTokenTTL overrides DefaultTokenTTL.
func WithTokenTTL(ttl time.Duration) TokenCodecOption {
	return func(c *SealedTokenCodec) {
		c.ttl = ttl
	}
}

// NewSealedTokenCodec derives the sealing key from secret.
// The secret must be at least MinTokenKeyLen bytes.
func NewSealedTokenCodec(secret []byte, opts ...TokenCodecOption) (*SealedTokenCodec, error) {
	if len(secret) < MinTokenKeyLen {
		return nil, oops.Code("TOKEN_KEY_INVALID").
			With("min_length", MinTokenKeyLen).
			Errorf("token key must be at least %d bytes", MinTokenKeyLen)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(tokenKeyInfo)), key); err != nil {
		return nil, oops.Code("TOKEN_KEY_INVALID").With("operation", "derive key").Wrap(err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, oops.Code("TOKEN_KEY_INVALID").With("operation", "create cipher").Wrap(err)
	}

	c := &SealedTokenCodec{aead: aead, ttl: DefaultTokenTTL}
	for _, opt := range opts {
		opt(c)
	}
	if c.ttl <= 0 {
		return nil, oops.Code("TOKEN_TTL_INVALID").Errorf("token ttl must be positive, got %s", c.ttl)
	}
	return c, nil
}

// Issue seals a token for accountID.
func (c *SealedTokenCodec) Issue(accountID ulid.ULID, now time.Time) (string, error) {
	if accountID.IsZero() {
		return "", oops.Code("TOKEN_ISSUE_FAILED").Errorf("account id is required")
	}

	now = now.UTC()
	payload, err := json.Marshal(tokenClaims{
		AccountID: accountID.String(),
		NotBefore: now,
		ExpiresAt: now.Add(c.ttl),
	})
	if err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").With("operation", "encode claims").Wrap(err)
	}

	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(payload)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").With("operation", "generate nonce").Wrap(err)
	}

	sealed := c.aead.Seal(nonce, nonce, payload, []byte(tokenHeader))
	return tokenHeader + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode opens a token and validates its window against now.
func (c *SealedTokenCodec) Decode(token string, now time.Time) (Session, error) {
	body, ok := strings.CutPrefix(token, tokenHeader)
	if !ok {
		return Session{}, oops.Code("TOKEN_MALFORMED").Errorf("unrecognized token header")
	}

	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return Session{}, oops.Code("TOKEN_MALFORMED").Wrap(err)
	}
	if len(raw) < c.aead.NonceSize()+c.aead.Overhead() {
		return Session{}, oops.Code("TOKEN_MALFORMED").Errorf("token too short")
	}

	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	payload, err := c.aead.Open(nil, nonce, ciphertext, []byte(tokenHeader))
	if err != nil {
		return Session{}, oops.Code("TOKEN_INVALID").Errorf("token failed authentication")
	}

	var claims tokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Session{}, oops.Code("TOKEN_INVALID").With("operation", "decode claims").Wrap(err)
	}

	accountID, err := ulid.Parse(claims.AccountID)
	if err != nil || accountID.IsZero() {
		return Session{}, oops.Code("TOKEN_INVALID").Errorf("token carries no valid account id")
	}

	session := Session{
		AccountID: accountID,
		NotBefore: claims.NotBefore,
		ExpiresAt: claims.ExpiresAt,
	}

	switch {
	case !session.ExpiresAt.After(session.NotBefore):
		return Session{}, oops.Code("TOKEN_INVALID").Errorf("token expiry precedes its start")
	case now.Before(session.NotBefore):
		return Session{}, oops.Code("TOKEN_NOT_YET_VALID").
			With("not_before", session.NotBefore).
			Errorf("token not yet valid")
	case now.After(session.ExpiresAt):
		return Session{}, oops.Code("TOKEN_EXPIRED").
			With("expires_at", session.ExpiresAt).
			Errorf("token expired")
	}

	return session, nil
}

var _ TokenCodec = (*SealedTokenCodec)(nil)
