package domain

import (
	"errors"
	"fmt"
	"time"
)

const localTimeLayout = "2006-01-02T15:04:05"

// ErrInvalidTime marks timestamps that could not be parsed.
var ErrInvalidTime = errors.New("Invalid date format")

// ErrEndBeforeStart marks events whose end does not follow their start.
var ErrEndBeforeStart = errors.New("event end time must be after start time")

// ParseTime accepts RFC 3339 timestamps and local timestamps without an
// offset, which are interpreted as UTC.
func ParseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(localTimeLayout, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w %q. Please use ISO format (YYYY-MM-DDTHH:MM:SS)", ErrInvalidTime, value)
}
