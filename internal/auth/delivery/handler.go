package delivery

import (
	"net/http"

	"assistant-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	usecase *usecase.AuthUsecase
}

func NewAuthHandler(u *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{usecase: u}
}

// Login handles GET /auth/login?service=gmail|calendar|all
func (h *AuthHandler) Login(c *gin.Context) {
	url, err := h.usecase.LoginURL(c.Query("service"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}

// Callback handles GET /auth/callback
func (h *AuthHandler) Callback(c *gin.Context) {
	if errMsg := c.Query("error"); errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization denied: " + errMsg})
		return
	}

	if err := h.usecase.HandleCallback(c.Request.Context(), c.Query("state"), c.Query("code")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Status handles GET /auth/status
func (h *AuthHandler) Status(c *gin.Context) {
	status, err := h.usecase.Status(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.usecase.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
