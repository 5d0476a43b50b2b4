package domain

import "time"

// Event is the normalized shape returned by the Calendar wrapper.
// Start and End carry either an RFC 3339 dateTime or a plain date for
// all-day events, exactly as the Calendar API returns them.
type Event struct {
	ID          string     `json:"id"`
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       string     `json:"start"`
	End         string     `json:"end"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	HTMLLink    string     `json:"htmlLink,omitempty"`
}

type Attendee struct {
	Email          string `json:"email"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}

// EventInput carries the fields accepted when creating or updating an event.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
}
