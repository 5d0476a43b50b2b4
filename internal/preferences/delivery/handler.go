package delivery

import (
	"net/http"

	"assistant-backend/internal/preferences/repository"

	"github.com/gin-gonic/gin"
)

type PreferencesHandler struct {
	store *repository.Store
}

func NewPreferencesHandler(store *repository.Store) *PreferencesHandler {
	return &PreferencesHandler{store: store}
}

// GetPreferences handles GET /api/preferences/:user_id
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.store.Get(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences handles POST /api/preferences/:user_id
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	prefs, err := h.store.Update(c.Param("user_id"), updates)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prefs)
}
