// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package qa contains the question and answer domain: entities, the
// repository contract both store backends implement, pagination, and the
// ownership guard that gates every mutation.
//
// Reads of a missing resource fail with a not-found code. Mutations never
// do: a missing resource and a resource owned by someone else both fail
// with AUTH_NOT_OWNER, so write endpoints cannot be used to probe which
// ids exist.
package qa
