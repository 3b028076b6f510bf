// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/qanda/internal/auth"
	"github.com/holomush/qanda/internal/logging"
	"github.com/holomush/qanda/internal/observability"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 64
	sessionKey      = "qanda.session"
	unmatchedRoute  = "unmatched"
)

var tracer = otel.Tracer("qanda/httpapi")

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}

func tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := routeOf(c)
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
			))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// requestID keeps a caller-supplied X-Request-ID of sane length, or mints a
// ULID, and echoes it on the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = ulid.Make().String()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"route", routeOf(c),
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP())
	}
}

func observeRequests(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveRequest(c.Request.Method, routeOf(c), c.Writer.Status(), time.Since(start))
	}
}

func recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		respondError(c, logger, oops.Code("HTTP_PANIC").Errorf("panic: %v", recovered))
	})
}

// requireSession authenticates the bearer token and stores the session for
// the handler.
func (h *handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := h.authn.Authenticate(c.GetHeader("Authorization"), h.now())
		h.metrics.RecordAuthEvent(observability.AuthEventVerify, err == nil)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) auth.Session {
	session, _ := c.MustGet(sessionKey).(auth.Session)
	return session
}
