package delivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"assistant-backend/internal/preferences/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := repository.NewStore(t.TempDir())
	require.NoError(t, err)
	handler := NewPreferencesHandler(store)

	r := gin.New()
	r.GET("/api/preferences/:user_id", handler.GetPreferences)
	r.POST("/api/preferences/:user_id", handler.UpdatePreferences)
	return r
}

func TestGetPreferencesReturnsDefaults(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/preferences/alice", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var prefs map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefs))
	assert.Equal(t, "alice", prefs["user_id"])
	assert.Equal(t, "light", prefs["theme"])
}

func TestUpdatePreferences(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/preferences/alice", strings.NewReader(`{"theme":"dark"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var prefs map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefs))
	assert.Equal(t, "dark", prefs["theme"])
	assert.NotEmpty(t, prefs["updated_at"])
}

func TestUpdatePreferencesRejectsBadBody(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/preferences/alice", strings.NewReader(`not json`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPreferencesRejectsBadUserID(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/preferences/bad*id", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
