package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contractlens/internal/domain"
	"contractlens/internal/logger"
	"contractlens/internal/service"
)

// Fallback answers. The chat client renders whatever advice/reasoning pair it
// gets, so every failure still returns one.
var (
	chatFailure = domain.ChatAnswer{
		Advice:    "Sorry, I encountered an error.",
		Reasoning: "Please try your question again.",
	}
	chatMalformed = domain.ChatAnswer{
		Advice:    "Sorry, I could not read your question.",
		Reasoning: "The request must be JSON with contractText and userQuestion fields.",
	}
	chatEmptyQuestion = domain.ChatAnswer{
		Advice:    "Please enter a question.",
		Reasoning: "The question was empty, so there was nothing to answer.",
	}
)

// ChatHandler answers follow-up questions about an analyzed contract.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// AskLawyer handles POST /ask-lawyer
func (h *ChatHandler) AskLawyer(c *gin.Context) {
	ctx := c.Request.Context()

	var q domain.ChatQuestion
	if err := c.ShouldBindJSON(&q); err != nil {
		logger.Warn(ctx, "malformed chat request", "error", err)
		c.JSON(http.StatusBadRequest, chatMalformed)
		return
	}
	if strings.TrimSpace(q.UserQuestion) == "" {
		c.JSON(http.StatusBadRequest, chatEmptyQuestion)
		return
	}

	answer, err := h.chatService.Ask(ctx, q)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, chatEmptyQuestion)
			return
		}
		logger.Error(ctx, "chat answer failed", "error", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, chatFailure)
		return
	}

	c.JSON(http.StatusOK, answer)
}
