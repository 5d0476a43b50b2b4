package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"assistant-backend/internal/calendar/domain"
	"assistant-backend/internal/calendar/dto"
	"assistant-backend/internal/calendar/usecase"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	usecase *usecase.CalendarUsecase
}

func NewCalendarHandler(u *usecase.CalendarUsecase) *CalendarHandler {
	return &CalendarHandler{usecase: u}
}

// Create handles POST /api/calendar/create
func (h *CalendarHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	event, err := h.usecase.Create(c.Request.Context(), req.Summary, req.StartTime, req.EndTime, req.Description, req.Location, req.Attendees)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, event)
}

// List handles GET /api/calendar/events
func (h *CalendarHandler) List(c *gin.Context) {
	events, err := h.usecase.Upcoming(c.Request.Context(), maxResultsParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.EventListResponse{Events: events, Count: len(events)})
}

// Search handles GET /api/calendar/search?query=...
func (h *CalendarHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'query' is required"})
		return
	}

	events, err := h.usecase.Search(c.Request.Context(), query, maxResultsParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.EventListResponse{Events: events, Count: len(events)})
}

// Get handles GET /api/calendar/events/:event_id
func (h *CalendarHandler) Get(c *gin.Context) {
	event, err := h.usecase.Get(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, event)
}

// Update handles PUT /api/calendar/events/:event_id
func (h *CalendarHandler) Update(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	event, err := h.usecase.Update(c.Request.Context(), c.Param("event_id"), req.Summary, req.StartTime, req.EndTime, req.Description, req.Location, req.Attendees)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /api/calendar/events/:event_id
func (h *CalendarHandler) Delete(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), c.Param("event_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrInvalidTime) || errors.Is(err, domain.ErrEndBeforeStart) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
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
