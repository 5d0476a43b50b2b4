package delivery

import (
	"net/http"
	"strconv"

	"assistant-backend/internal/email/dto"
	"assistant-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	usecase *usecase.EmailUsecase
}

func NewEmailHandler(u *usecase.EmailUsecase) *EmailHandler {
	return &EmailHandler{usecase: u}
}

// Send handles POST /api/email/send
func (h *EmailHandler) Send(c *gin.Context) {
	var req dto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	messageID, err := h.usecase.Send(c.Request.Context(), req.To, req.Subject, req.Body, req.CC, req.BCC)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.SendEmailResponse{MessageID: messageID, Status: "sent"})
}

// Unread handles GET /api/email/unread
func (h *EmailHandler) Unread(c *gin.Context) {
	emails, err := h.usecase.Unread(c.Request.Context(), maxResultsParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.EmailListResponse{Emails: emails, Count: len(emails)})
}

// Search handles GET /api/email/search?query=...
func (h *EmailHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'query' is required"})
		return
	}

	emails, err := h.usecase.Search(c.Request.Context(), query, maxResultsParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.EmailListResponse{Emails: emails, Count: len(emails)})
}

// Thread handles GET /api/email/thread/:thread_id
func (h *EmailHandler) Thread(c *gin.Context) {
	messages, err := h.usecase.Thread(c.Request.Context(), c.Param("thread_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.EmailListResponse{Emails: messages, Count: len(messages)})
}

// MarkAsRead handles POST /api/email/:email_id/read
func (h *EmailHandler) MarkAsRead(c *gin.Context) {
	if err := h.usecase.MarkAsRead(c.Request.Context(), c.Param("email_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "marked as read"})
}

func maxResultsParam(c *gin.Context) int64 {
	value := c.Query("max_results")
	if value == "" {
		return 10
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return 10
	}
	return n
}
