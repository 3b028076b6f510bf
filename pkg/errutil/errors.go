// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package errutil holds the error sentinels, outward error kinds, and
// logging/test helpers shared by every qanda package.
package errutil

import "errors"

// ErrNotFound is wrapped by repositories when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is wrapped by repositories when a write violates a uniqueness constraint.
var ErrConflict = errors.New("already exists")
