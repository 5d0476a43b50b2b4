package delivery

import (
	"context"
	"net/http"

	"assistant-backend/internal/assistant/dto"

	"github.com/gin-gonic/gin"
)

// ChatUsecase is implemented by the assistant usecase.
type ChatUsecase interface {
	Chat(ctx context.Context, userID, message string) (string, error)
	ChatEmail(ctx context.Context, userID, message string) (string, error)
	ChatCalendar(ctx context.Context, userID, message string) (string, error)
	ClearConversation(ctx context.Context, userID string) error
}

type ChatHandler struct {
	usecase ChatUsecase
}

func NewChatHandler(usecase ChatUsecase) *ChatHandler {
	return &ChatHandler{usecase: usecase}
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	h.handle(c, "assistant", h.usecase.Chat)
}

// ChatEmail handles POST /api/email
func (h *ChatHandler) ChatEmail(c *gin.Context) {
	h.handle(c, "email", h.usecase.ChatEmail)
}

// ChatCalendar handles POST /api/calendar
func (h *ChatHandler) ChatCalendar(c *gin.Context) {
	h.handle(c, "calendar", h.usecase.ChatCalendar)
}

// ClearConversation handles DELETE /api/chat/:user_id
func (h *ChatHandler) ClearConversation(c *gin.Context) {
	if err := h.usecase.ClearConversation(c.Request.Context(), c.Param("user_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "conversation cleared"})
}

func (h *ChatHandler) handle(c *gin.Context, source string, run func(ctx context.Context, userID, message string) (string, error)) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	reply, err := run(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{Response: reply, Source: source})
}
