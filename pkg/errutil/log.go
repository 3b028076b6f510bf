// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs a server-side failure at error level with its outward kind,
// oops code and context.
func LogError(ctx context.Context, logger *slog.Logger, msg string, err error) {
	logger.ErrorContext(ctx, msg, errorAttrs(err)...)
}

// LogRejected logs a request the caller got wrong (bad input, bad
// credentials, not the owner) at debug level. These are expected traffic and
// stay out of error logs.
func LogRejected(ctx context.Context, logger *slog.Logger, msg string, err error) {
	logger.DebugContext(ctx, msg, errorAttrs(err)...)
}

func errorAttrs(err error) []any {
	attrs := []any{
		"error", err.Error(),
		"kind", KindOf(err).String(),
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return attrs
	}
	if code, _ := any(oopsErr.Code()).(string); code != "" {
		attrs = append(attrs, "code", code)
	}
	if oopsCtx := oopsErr.Context(); len(oopsCtx) > 0 {
		attrs = append(attrs, "context", oopsCtx)
	}
	return attrs
}
