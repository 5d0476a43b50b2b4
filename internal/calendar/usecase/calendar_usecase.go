package usecase

import (
	"context"

	"assistant-backend/internal/calendar/domain"
)

// CalendarService is the slice of the Calendar client this feature needs.
type CalendarService interface {
	UpcomingEvents(ctx context.Context, maxResults int64) ([]*domain.Event, error)
	SearchEvents(ctx context.Context, query string, maxResults int64) ([]*domain.Event, error)
	CreateEvent(ctx context.Context, input *domain.EventInput) (*domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (*domain.Event, error)
	UpdateEvent(ctx context.Context, eventID string, input *domain.EventInput) (*domain.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

type CalendarUsecase struct {
	calendar CalendarService
}

func NewCalendarUsecase(calendar CalendarService) *CalendarUsecase {
	return &CalendarUsecase{calendar: calendar}
}

func (u *CalendarUsecase) Upcoming(ctx context.Context, maxResults int64) ([]*domain.Event, error) {
	return u.calendar.UpcomingEvents(ctx, maxResults)
}

func (u *CalendarUsecase) Search(ctx context.Context, query string, maxResults int64) ([]*domain.Event, error) {
	return u.calendar.SearchEvents(ctx, query, maxResults)
}

// Create parses the request times and inserts the event.
func (u *CalendarUsecase) Create(ctx context.Context, summary, startTime, endTime, description, location string, attendees []string) (*domain.Event, error) {
	start, err := domain.ParseTime(startTime)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseTime(endTime)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, domain.ErrEndBeforeStart
	}

	return u.calendar.CreateEvent(ctx, &domain.EventInput{
		Summary:     summary,
		Description: description,
		Location:    location,
		Start:       start,
		End:         end,
		Attendees:   attendees,
	})
}

func (u *CalendarUsecase) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	return u.calendar.GetEvent(ctx, eventID)
}

// Update parses any provided times and applies the partial update.
func (u *CalendarUsecase) Update(ctx context.Context, eventID, summary, startTime, endTime, description, location string, attendees []string) (*domain.Event, error) {
	input := &domain.EventInput{
		Summary:     summary,
		Description: description,
		Location:    location,
		Attendees:   attendees,
	}

	if startTime != "" {
		start, err := domain.ParseTime(startTime)
		if err != nil {
			return nil, err
		}
		input.Start = start
	}
	if endTime != "" {
		end, err := domain.ParseTime(endTime)
		if err != nil {
			return nil, err
		}
		input.End = end
	}

	return u.calendar.UpdateEvent(ctx, eventID, input)
}

func (u *CalendarUsecase) Delete(ctx context.Context, eventID string) error {
	return u.calendar.DeleteEvent(ctx, eventID)
}
