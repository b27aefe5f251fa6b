package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kbassist/internal/ai"
	"kbassist/internal/app"
	"kbassist/internal/model"
	"kbassist/internal/transport/http/response"
)

type AnswerHandler struct {
	answers  *app.AnswerService
	sessions *app.SessionService
}

type AnswerRequest struct {
	Query string `json:"query" binding:"required"`
	// SessionID selects the server-held session. The widget may instead send
	// its own local history, which takes precedence for prompt building.
	SessionID   string           `json:"session_id"`
	ChatHistory []model.ChatTurn `json:"chatHistory"`
}

func NewAnswerHandler(answers *app.AnswerService, sessions *app.SessionService) *AnswerHandler {
	return &AnswerHandler{answers: answers, sessions: sessions}
}

func (h *AnswerHandler) Answer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	ctx := c.Request.Context()

	var history []model.ChatTurn
	if len(req.ChatHistory) > 0 {
		history = req.ChatHistory
	} else {
		history = h.sessions.History(ctx, req.SessionID)
	}
	window := h.sessions.Window(history)

	result, err := h.answers.Answer(ctx, req.Query, window)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmptyInput):
			response.Fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ai.ErrEmbeddingDimension), ai.IsUpstream(err, ""):
			response.Fail(c, http.StatusBadGateway, err.Error())
		case errors.Is(err, app.ErrGeneration):
			response.Fail(c, http.StatusBadGateway, err.Error())
		default:
			response.Fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if req.SessionID != "" {
		userTurn := app.NewUserTurn(req.Query)
		assistantTurn := app.NewAssistantTurn(result.Answer, result.Sources)
		// The answer is already computed; a failed session write must not
		// turn it into an error response.
		_, _ = h.sessions.AppendExchange(ctx, req.SessionID, userTurn, assistantTurn)
	}

	response.OK(c, result)
}
