package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	calendardomain "assistant-backend/internal/calendar/domain"
	"assistant-backend/pkg/google"

	calendarapi "google.golang.org/api/calendar/v3"
)

const primaryCalendar = "primary"

// Service wraps the Google Calendar API for the primary calendar.
type Service struct {
	auth *google.Auth

	mu  sync.Mutex
	svc *calendarapi.Service
}

func NewService(auth *google.Auth) *Service {
	return &Service{auth: auth}
}

func (s *Service) service(ctx context.Context) (*calendarapi.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.svc != nil {
		return s.svc, nil
	}

	svc, err := s.auth.CalendarService(ctx)
	if err != nil {
		return nil, fmt.Errorf("calendar authentication failed: %w", err)
	}
	s.svc = svc
	return svc, nil
}

// UpcomingEvents returns up to maxResults events starting from now,
// ordered by start time.
func (s *Service) UpcomingEvents(ctx context.Context, maxResults int64) ([]*calendardomain.Event, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = 10
	}

	res, err := svc.Events.List(primaryCalendar).
		TimeMin(time.Now().UTC().Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list events: %w", err)
	}

	return convertEvents(res.Items), nil
}

// SearchEvents returns future events matching a free-text query.
func (s *Service) SearchEvents(ctx context.Context, query string, maxResults int64) ([]*calendardomain.Event, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = 10
	}

	res, err := svc.Events.List(primaryCalendar).
		Q(query).
		TimeMin(time.Now().UTC().Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to search events: %w", err)
	}

	return convertEvents(res.Items), nil
}

// CreateEvent inserts an event into the primary calendar. The end time
// must be after the start time.
func (s *Service) CreateEvent(ctx context.Context, input *calendardomain.EventInput) (*calendardomain.Event, error) {
	if !input.End.After(input.Start) {
		return nil, calendardomain.ErrEndBeforeStart
	}

	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	event := &calendarapi.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		Start: &calendarapi.EventDateTime{
			DateTime: input.Start.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &calendarapi.EventDateTime{
			DateTime: input.End.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		Reminders: &calendarapi.EventReminders{
			UseDefault:      true,
			ForceSendFields: []string{"UseDefault"},
		},
	}
	for _, email := range input.Attendees {
		event.Attendees = append(event.Attendees, &calendarapi.EventAttendee{Email: email})
	}

	created, err := svc.Events.Insert(primaryCalendar, event).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to create event: %w", err)
	}

	return convertEvent(created), nil
}

// GetEvent returns a single event by id.
func (s *Service) GetEvent(ctx context.Context, eventID string) (*calendardomain.Event, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	event, err := svc.Events.Get(primaryCalendar, eventID).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve event %s: %w", eventID, err)
	}

	return convertEvent(event), nil
}

// UpdateEvent applies the non-zero fields of input to an existing event.
// Zero time values leave the corresponding field unchanged.
func (s *Service) UpdateEvent(ctx context.Context, eventID string, input *calendardomain.EventInput) (*calendardomain.Event, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	event, err := svc.Events.Get(primaryCalendar, eventID).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve event %s: %w", eventID, err)
	}

	if input.Summary != "" {
		event.Summary = input.Summary
	}
	if input.Description != "" {
		event.Description = input.Description
	}
	if input.Location != "" {
		event.Location = input.Location
	}
	if !input.Start.IsZero() {
		event.Start = &calendarapi.EventDateTime{
			DateTime: input.Start.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		}
	}
	if !input.End.IsZero() {
		event.End = &calendarapi.EventDateTime{
			DateTime: input.End.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		}
	}
	if len(input.Attendees) > 0 {
		event.Attendees = nil
		for _, email := range input.Attendees {
			event.Attendees = append(event.Attendees, &calendarapi.EventAttendee{Email: email})
		}
	}

	updated, err := svc.Events.Update(primaryCalendar, eventID, event).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to update event %s: %w", eventID, err)
	}

	return convertEvent(updated), nil
}

// DeleteEvent removes an event from the primary calendar.
func (s *Service) DeleteEvent(ctx context.Context, eventID string) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}

	if err := svc.Events.Delete(primaryCalendar, eventID).Do(); err != nil {
		return fmt.Errorf("unable to delete event %s: %w", eventID, err)
	}
	return nil
}

func convertEvents(items []*calendarapi.Event) []*calendardomain.Event {
	events := make([]*calendardomain.Event, 0, len(items))
	for _, item := range items {
		events = append(events, convertEvent(item))
	}
	return events
}

func convertEvent(item *calendarapi.Event) *calendardomain.Event {
	event := &calendardomain.Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		HTMLLink:    item.HtmlLink,
	}
	if item.Start != nil {
		event.Start = eventTime(item.Start)
	}
	if item.End != nil {
		event.End = eventTime(item.End)
	}
	for _, a := range item.Attendees {
		event.Attendees = append(event.Attendees, calendardomain.Attendee{
			Email:          a.Email,
			ResponseStatus: a.ResponseStatus,
		})
	}
	return event
}

// eventTime prefers the timed value and falls back to the all-day date.
func eventTime(dt *calendarapi.EventDateTime) string {
	if dt.DateTime != "" {
		return dt.DateTime
	}
	return dt.Date
}
