package dto

import calendardomain "assistant-backend/internal/calendar/domain"

// CreateEventRequest is the body for POST /api/calendar/create.
type CreateEventRequest struct {
	Summary     string   `json:"summary" binding:"required"`
	StartTime   string   `json:"start_time" binding:"required"`
	EndTime     string   `json:"end_time" binding:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Attendees   []string `json:"attendees"`
}

// UpdateEventRequest is the body for PUT /api/calendar/events/:event_id.
// Empty fields are left unchanged.
type UpdateEventRequest struct {
	Summary     string   `json:"summary"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Attendees   []string `json:"attendees"`
}

// EventListResponse wraps a list of events.
type EventListResponse struct {
	Events []*calendardomain.Event `json:"events"`
	Count  int                     `json:"count"`
}
