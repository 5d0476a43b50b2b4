package usecase

import (
	"fmt"
	"strings"
	"time"

	calendardomain "assistant-backend/internal/calendar/domain"
	emaildomain "assistant-backend/internal/email/domain"
)

func parseISOTime(value string) (time.Time, error) {
	return calendardomain.ParseTime(value)
}

func formatEmails(emails []*emaildomain.Email, withBody bool) string {
	if len(emails) == 0 {
		return "No emails found."
	}

	var b strings.Builder
	for i, email := range emails {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. From: %s\n", i+1, email.Sender)
		fmt.Fprintf(&b, "   Subject: %s\n", email.Subject)
		fmt.Fprintf(&b, "   Date: %s\n", email.Date)
		fmt.Fprintf(&b, "   ID: %s (thread %s)\n", email.ID, email.ThreadID)
		if withBody && email.Body != "" {
			fmt.Fprintf(&b, "   Body: %s\n", truncate(email.Body, 500))
		} else if email.Snippet != "" {
			fmt.Fprintf(&b, "   Snippet: %s\n", email.Snippet)
		}
	}
	return b.String()
}

func formatEvents(events []*calendardomain.Event) string {
	if len(events) == 0 {
		return "No events found."
	}

	var b strings.Builder
	for i, event := range events {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, event.Summary)
		fmt.Fprintf(&b, "   When: %s to %s\n", event.Start, event.End)
		if event.Location != "" {
			fmt.Fprintf(&b, "   Where: %s\n", event.Location)
		}
		if len(event.Attendees) > 0 {
			attendees := make([]string, len(event.Attendees))
			for j, a := range event.Attendees {
				attendees[j] = a.Email
			}
			fmt.Fprintf(&b, "   Attendees: %s\n", strings.Join(attendees, ", "))
		}
		fmt.Fprintf(&b, "   ID: %s\n", event.ID)
	}
	return b.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
