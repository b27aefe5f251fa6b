package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kbassist/internal/app"
	"kbassist/internal/transport/http/response"
)

type SessionHandler struct {
	sessions *app.SessionService
}

type ResetSessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

func NewSessionHandler(sessions *app.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) GetHistory(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.Fail(c, http.StatusBadRequest, "session_id is required")
		return
	}

	turns := h.sessions.History(c.Request.Context(), sessionID)
	response.OK(c, gin.H{
		"session_id": sessionID,
		"turns":      turns,
	})
}

func (h *SessionHandler) Reset(c *gin.Context) {
	var req ResetSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	turns, err := h.sessions.Reset(c.Request.Context(), req.SessionID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "reset session failed")
		return
	}

	response.OK(c, gin.H{
		"session_id": req.SessionID,
		"turns":      turns,
	})
}
