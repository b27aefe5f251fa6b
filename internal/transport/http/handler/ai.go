package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kbassist/internal/ai"
	"kbassist/internal/app"
	"kbassist/internal/transport/http/response"
)

// AIHandler exposes the embedding and generation collaborator boundaries
// directly, mostly for the admin side and for probing the provider.
type AIHandler struct {
	embedder *app.EmbeddingGateway
	client   *ai.Client
}

type EmbeddingRequest struct {
	Text string `json:"text" binding:"required"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

func NewAIHandler(embedder *app.EmbeddingGateway, client *ai.Client) *AIHandler {
	return &AIHandler{embedder: embedder, client: client}
}

func (h *AIHandler) Embedding(c *gin.Context) {
	var req EmbeddingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	vector, err := h.embedder.Embed(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmptyInput):
			response.Fail(c, http.StatusBadRequest, err.Error())
		default:
			var ue *ai.UpstreamError
			if errors.As(err, &ue) {
				c.JSON(http.StatusBadGateway, gin.H{"error": ue.Message, "status": ue.StatusCode})
				return
			}
			response.Fail(c, http.StatusBadGateway, err.Error())
		}
		return
	}

	response.OK(c, gin.H{
		"model":     h.client.EmbeddingModel(),
		"dimension": h.client.EmbeddingDimension(),
		"embedding": vector,
	})
}

func (h *AIHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	output, err := h.client.Complete(c.Request.Context(), req.Prompt)
	if err != nil {
		var ue *ai.UpstreamError
		if errors.As(err, &ue) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed", "message": ue.Message})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed", "message": err.Error()})
		return
	}

	response.OK(c, gin.H{"output": output})
}
