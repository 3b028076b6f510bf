// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/qanda/internal/observability"
	"github.com/holomush/qanda/internal/qa"
	"github.com/holomush/qanda/pkg/errutil"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type answerUpdate struct {
	Content string `json:"content"`
}

func (h *handler) register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, invalidBody(err))
		return
	}
	account, err := h.accounts.Register(c.Request.Context(), req.Email, req.Password)
	h.metrics.RecordAuthEvent(observability.AuthEventRegister, err == nil)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *handler) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, invalidBody(err))
		return
	}
	token, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	h.metrics.RecordAuthEvent(observability.AuthEventLogin, err == nil)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (h *handler) listQuestions(c *gin.Context) {
	page, err := qa.ParsePagination(c.Request.URL.Query())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	questions, err := h.qa.ListQuestions(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if questions == nil {
		questions = []*qa.Question{}
	}
	c.JSON(http.StatusOK, questions)
}

func (h *handler) getQuestion(c *gin.Context) {
	id, err := questionReadID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	question, err := h.qa.GetQuestion(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *handler) createQuestion(c *gin.Context) {
	var data qa.QuestionData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, h.logger, invalidBody(err))
		return
	}
	question, err := h.qa.CreateQuestion(c.Request.Context(), sessionFrom(c), data)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *handler) updateQuestion(c *gin.Context) {
	id, err := mutationID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var data qa.QuestionData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, h.logger, invalidBody(err))
		return
	}
	question, err := h.qa.UpdateQuestion(c.Request.Context(), sessionFrom(c), id, data)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *handler) deleteQuestion(c *gin.Context) {
	id, err := mutationID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.qa.DeleteQuestion(c.Request.Context(), sessionFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) createAnswer(c *gin.Context) {
	var data qa.AnswerData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, h.logger, invalidBody(err))
		return
	}
	answer, err := h.qa.CreateAnswer(c.Request.Context(), sessionFrom(c), data)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, answer)
}

func (h *handler) updateAnswer(c *gin.Context) {
	id, err := mutationID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req answerUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, invalidBody(err))
		return
	}
	answer, err := h.qa.UpdateAnswer(c.Request.Context(), sessionFrom(c), id, req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// questionReadID parses the :id path segment for a read. A malformed id
// names nothing, so it is reported as not found.
func questionReadID(c *gin.Context) (ulid.ULID, error) {
	raw := c.Param("id")
	id, err := ulid.ParseStrict(raw)
	if err != nil {
		return ulid.ULID{}, oops.Code("QUESTION_NOT_FOUND").With("id", raw).Wrap(errutil.ErrNotFound)
	}
	return id, nil
}

// mutationID parses the :id path segment for a mutation. The caller cannot
// own a resource that cannot exist, so a malformed id fails ownership.
func mutationID(c *gin.Context) (ulid.ULID, error) {
	raw := c.Param("id")
	id, err := ulid.ParseStrict(raw)
	if err != nil {
		return ulid.ULID{}, oops.Code("AUTH_NOT_OWNER").With("id", raw).Errorf("malformed resource id")
	}
	return id, nil
}
