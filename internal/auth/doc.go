// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package auth provides authentication primitives for qanda.
//
// # Primitives
//
//   - PasswordHasher / Argon2idHasher - salted argon2id digests in PHC format
//   - TokenCodec / SealedTokenCodec - encrypted, self-contained session tokens
//   - SessionAuthenticator - Authorization header to Session
//
// # Services
//
// AccountService coordinates registration and login over an AccountRepository.
// It is created with NewAccountService, which validates its dependencies.
//
// Errors carry oops codes (AUTH_INVALID_CREDENTIALS, TOKEN_EXPIRED, ...).
// Callers producing responses classify them with errutil.KindOf rather than
// inspecting codes, so distinct internal causes collapse to one outward kind.
package auth
