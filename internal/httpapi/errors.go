// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/holomush/qanda/pkg/errutil"
)

type errorBody struct {
	Error string `json:"error"`
}

// statusOf maps an error kind to its HTTP status.
func statusOf(kind errutil.Kind) int {
	switch kind {
	case errutil.KindInvalid:
		return http.StatusBadRequest
	case errutil.KindConflict:
		return http.StatusUnprocessableEntity
	case errutil.KindWrongCredentials, errutil.KindUnauthorized:
		return http.StatusUnauthorized
	case errutil.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError aborts with the kind's status and fixed message. The cause is
// logged, never sent.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	kind := errutil.KindOf(err)
	status := statusOf(kind)

	if status >= http.StatusInternalServerError {
		errutil.LogError(c.Request.Context(), logger, "request failed", err)
	} else {
		errutil.LogRejected(c.Request.Context(), logger, "request rejected", err)
	}

	c.AbortWithStatusJSON(status, errorBody{Error: kind.Message()})
}

func invalidBody(err error) error {
	return oops.Code("REQUEST_INVALID_BODY").Wrap(err)
}
