package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"assistant-backend/internal/calendar/domain"
	"assistant-backend/internal/calendar/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	events  []*domain.Event
	created *domain.EventInput
	deleted []string
}

func (f *fakeService) UpcomingEvents(ctx context.Context, maxResults int64) ([]*domain.Event, error) {
	return f.events, nil
}

func (f *fakeService) SearchEvents(ctx context.Context, query string, maxResults int64) ([]*domain.Event, error) {
	return f.events, nil
}

func (f *fakeService) CreateEvent(ctx context.Context, input *domain.EventInput) (*domain.Event, error) {
	f.created = input
	return &domain.Event{ID: "evt-1", Summary: input.Summary}, nil
}

func (f *fakeService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	return &domain.Event{ID: eventID, Summary: "Standup"}, nil
}

func (f *fakeService) UpdateEvent(ctx context.Context, eventID string, input *domain.EventInput) (*domain.Event, error) {
	return &domain.Event{ID: eventID, Summary: input.Summary}, nil
}

func (f *fakeService) DeleteEvent(ctx context.Context, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	return nil
}

func setupRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewCalendarHandler(usecase.NewCalendarUsecase(svc))

	r := gin.New()
	r.POST("/api/calendar/create", handler.Create)
	r.GET("/api/calendar/events", handler.List)
	r.GET("/api/calendar/search", handler.Search)
	r.GET("/api/calendar/events/:event_id", handler.Get)
	r.PUT("/api/calendar/events/:event_id", handler.Update)
	r.DELETE("/api/calendar/events/:event_id", handler.Delete)
	return r
}

func TestCreateEvent(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc)

	body := `{"summary":"Standup","start_time":"2025-03-14T09:00:00","end_time":"2025-03-14T09:15:00"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/calendar/create", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Standup", svc.created.Summary)
}

func TestCreateEventRejectsBadDate(t *testing.T) {
	r := setupRouter(&fakeService{})

	body := `{"summary":"Standup","start_time":"tomorrow","end_time":"2025-03-14T09:15:00"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/calendar/create", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid date format")
}

func TestCreateEventRejectsEndBeforeStart(t *testing.T) {
	r := setupRouter(&fakeService{})

	body := `{"summary":"Standup","start_time":"2025-03-14T10:00:00","end_time":"2025-03-14T09:00:00"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/calendar/create", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "end time must be after start time")
}

func TestCreateEventRequiresFields(t *testing.T) {
	r := setupRouter(&fakeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/calendar/create", strings.NewReader(`{"summary":"Standup"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEvents(t *testing.T) {
	svc := &fakeService{events: []*domain.Event{{ID: "1", Summary: "Standup"}}}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/events", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Events []*domain.Event `json:"events"`
		Count  int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Standup", resp.Events[0].Summary)
}

func TestSearchRequiresQuery(t *testing.T) {
	r := setupRouter(&fakeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/search", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteEvent(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/calendar/events/evt-9", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"evt-9"}, svc.deleted)
}
