// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package httpapi exposes accounts, questions and answers over HTTP with gin.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/qanda/internal/auth"
	"github.com/holomush/qanda/internal/observability"
	"github.com/holomush/qanda/internal/qa"
)

// AccountService registers accounts and logs them in.
type AccountService interface {
	Register(ctx context.Context, email, password string) (*auth.Account, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// QAService manages questions and answers on behalf of a session.
type QAService interface {
	CreateQuestion(ctx context.Context, session auth.Session, data qa.QuestionData) (*qa.Question, error)
	GetQuestion(ctx context.Context, id ulid.ULID) (*qa.Question, error)
	ListQuestions(ctx context.Context, page qa.Pagination) ([]*qa.Question, error)
	UpdateQuestion(ctx context.Context, session auth.Session, id ulid.ULID, data qa.QuestionData) (*qa.Question, error)
	DeleteQuestion(ctx context.Context, session auth.Session, id ulid.ULID) error
	CreateAnswer(ctx context.Context, session auth.Session, data qa.AnswerData) (*qa.Answer, error)
	UpdateAnswer(ctx context.Context, session auth.Session, id ulid.ULID, content string) (*qa.Answer, error)
}

// Authenticator turns an Authorization header into a session.
type Authenticator interface {
	Authenticate(header string, now time.Time) (auth.Session, error)
}

// Deps are the router's collaborators.
type Deps struct {
	Accounts      AccountService
	QA            QAService
	Authenticator Authenticator
	// Metrics may be nil.
	Metrics *observability.Metrics
	Logger  *slog.Logger
	// CORSOrigins enables CORS for the listed origins. Empty disables it.
	CORSOrigins []string
	// Now defaults to time.Now.
	Now func() time.Time
}

type handler struct {
	accounts AccountService
	qa       QAService
	authn    Authenticator
	metrics  *observability.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	switch {
	case deps.Accounts == nil:
		return nil, oops.Errorf("account service is required")
	case deps.QA == nil:
		return nil, oops.Errorf("qa service is required")
	case deps.Authenticator == nil:
		return nil, oops.Errorf("authenticator is required")
	case deps.Logger == nil:
		return nil, oops.Errorf("logger is required")
	}

	h := &handler{
		accounts: deps.Accounts,
		qa:       deps.QA,
		authn:    deps.Authenticator,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		now:      deps.Now,
	}
	if h.now == nil {
		h.now = time.Now
	}

	r := gin.New()
	r.Use(
		tracing(),
		requestID(),
		accessLog(h.logger),
		observeRequests(h.metrics),
		recovery(h.logger),
	)
	if len(deps.CORSOrigins) > 0 {
		corsMiddleware, err := newCORS(deps.CORSOrigins)
		if err != nil {
			return nil, err
		}
		r.Use(corsMiddleware)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "resource not found"})
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/registration", h.register)
	r.POST("/login", h.login)

	r.GET("/questions", h.listQuestions)
	r.GET("/questions/:id", h.getQuestion)

	authed := r.Group("", h.requireSession())
	{
		authed.POST("/questions", h.createQuestion)
		authed.PUT("/questions/:id", h.updateQuestion)
		authed.DELETE("/questions/:id", h.deleteQuestion)
		authed.POST("/answers", h.createAnswer)
		authed.PUT("/answers/:id", h.updateAnswer)
	}

	return r, nil
}

func newCORS(origins []string) (gin.HandlerFunc, error) {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	cfg.ExposeHeaders = []string{requestIDHeader}
	cfg.MaxAge = 12 * time.Hour
	if err := cfg.Validate(); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("key", "cors.origins").Wrap(err)
	}
	return cors.New(cfg), nil
}
