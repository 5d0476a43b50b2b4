package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	calendardomain "assistant-backend/internal/calendar/domain"
	emaildomain "assistant-backend/internal/email/domain"
	prefrepo "assistant-backend/internal/preferences/repository"
	"assistant-backend/pkg/ai"
	"assistant-backend/pkg/websearch"
)

// EmailService is the slice of the Gmail client the assistant needs.
type EmailService interface {
	SendEmail(ctx context.Context, to, subject, body, cc, bcc string) (string, error)
	UnreadEmails(ctx context.Context, maxResults int64) ([]*emaildomain.Email, error)
	SearchEmails(ctx context.Context, query string, maxResults int64) ([]*emaildomain.Email, error)
	GetEmail(ctx context.Context, messageID string) (*emaildomain.Email, error)
	GetThread(ctx context.Context, threadID string) ([]*emaildomain.Email, error)
	MarkAsRead(ctx context.Context, messageID string) error
}

// CalendarService is the slice of the Calendar client the assistant needs.
type CalendarService interface {
	UpcomingEvents(ctx context.Context, maxResults int64) ([]*calendardomain.Event, error)
	SearchEvents(ctx context.Context, query string, maxResults int64) ([]*calendardomain.Event, error)
	CreateEvent(ctx context.Context, input *calendardomain.EventInput) (*calendardomain.Event, error)
	GetEvent(ctx context.Context, eventID string) (*calendardomain.Event, error)
	UpdateEvent(ctx context.Context, eventID string, input *calendardomain.EventInput) (*calendardomain.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// SearchService is the slice of the web search client the assistant needs.
type SearchService interface {
	Search(ctx context.Context, query string, num int) ([]websearch.Result, error)
	FetchPage(ctx context.Context, url string) (string, error)
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func integerProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// failure logs a service error and returns the message the user will see.
// Argument errors stay errors so the model can correct itself; service
// failures degrade to a plain apology.
func failure(tool string, err error, msg string) (string, error) {
	log.Printf("[ERROR] %s: %v", tool, err)
	return msg, nil
}

func emailTools(svc EmailService) []ai.Tool {
	return []ai.Tool{
		{
			Name:        "send_email",
			Description: "Send a plain-text email from the user's Gmail account.",
			Parameters: objectSchema(map[string]any{
				"to":      stringProp("Recipient email address"),
				"subject": stringProp("Email subject line"),
				"body":    stringProp("Plain-text email body"),
				"cc":      stringProp("Optional comma-separated CC addresses"),
				"bcc":     stringProp("Optional comma-separated BCC addresses"),
			}, "to", "subject", "body"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					To      string `json:"to"`
					Subject string `json:"subject"`
					Body    string `json:"body"`
					CC      string `json:"cc"`
					BCC     string `json:"bcc"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				id, err := svc.SendEmail(ctx, a.To, a.Subject, a.Body, a.CC, a.BCC)
				if err != nil {
					return failure("send_email", err, "Failed to send email. Please try again.")
				}
				return fmt.Sprintf("Email sent to %s (message id %s).", a.To, id), nil
			},
		},
		{
			Name:        "get_unread_emails",
			Description: "List unread emails from the user's inbox, including their content.",
			Parameters: objectSchema(map[string]any{
				"max_results": integerProp("Maximum number of emails to return, default 10"),
			}),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					MaxResults int64 `json:"max_results"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				emails, err := svc.UnreadEmails(ctx, a.MaxResults)
				if err != nil {
					return failure("get_unread_emails", err, "Failed to retrieve unread emails. Please try again.")
				}
				return formatEmails(emails, true), nil
			},
		},
		{
			Name:        "read_email",
			Description: "Read one email in full by its id.",
			Parameters: objectSchema(map[string]any{
				"email_id": stringProp("Gmail message id"),
			}, "email_id"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					EmailID string `json:"email_id"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				email, err := svc.GetEmail(ctx, a.EmailID)
				if err != nil {
					return failure("read_email", err, "Failed to read the email. Please try again.")
				}
				return formatEmails([]*emaildomain.Email{email}, true), nil
			},
		},
		{
			Name:        "search_emails",
			Description: "Search the user's mailbox with a Gmail query, e.g. \"from:alice subject:report\".",
			Parameters: objectSchema(map[string]any{
				"query":       stringProp("Gmail search query"),
				"max_results": integerProp("Maximum number of emails to return, default 10"),
			}, "query"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					Query      string `json:"query"`
					MaxResults int64  `json:"max_results"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				emails, err := svc.SearchEmails(ctx, a.Query, a.MaxResults)
				if err != nil {
					return failure("search_emails", err, "Failed to search emails. Please try again.")
				}
				return formatEmails(emails, false), nil
			},
		},
		{
			Name:        "get_email_thread",
			Description: "Fetch every message in an email thread, with bodies.",
			Parameters: objectSchema(map[string]any{
				"thread_id": stringProp("Gmail thread id"),
			}, "thread_id"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					ThreadID string `json:"thread_id"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				messages, err := svc.GetThread(ctx, a.ThreadID)
				if err != nil {
					return failure("get_email_thread", err, "Failed to retrieve the email thread. Please try again.")
				}
				return formatEmails(messages, true), nil
			},
		},
		{
			Name:        "mark_email_as_read",
			Description: "Mark an email as read.",
			Parameters: objectSchema(map[string]any{
				"email_id": stringProp("Gmail message id"),
			}, "email_id"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					EmailID string `json:"email_id"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				if err := svc.MarkAsRead(ctx, a.EmailID); err != nil {
					return failure("mark_email_as_read", err, "Failed to mark the email as read. Please try again.")
				}
				return fmt.Sprintf("Email %s marked as read.", a.EmailID), nil
			},
		},
	}
}

func calendarTools(svc CalendarService) []ai.Tool {
	parseEventTimes := func(start, end string) (*calendardomain.EventInput, error) {
		input := &calendardomain.EventInput{}
		if start != "" {
			t, err := parseISOTime(start)
			if err != nil {
				return nil, err
			}
			input.Start = t
		}
		if end != "" {
			t, err := parseISOTime(end)
			if err != nil {
				return nil, err
			}
			input.End = t
		}
		return input, nil
	}

	return []ai.Tool{
		{
			Name:        "get_upcoming_events",
			Description: "List the user's next calendar events, soonest first.",
			Parameters: objectSchema(map[string]any{
				"max_results": integerProp("Maximum number of events to return, default 10"),
			}),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					MaxResults int64 `json:"max_results"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				events, err := svc.UpcomingEvents(ctx, a.MaxResults)
				if err != nil {
					return failure("get_upcoming_events", err, "Failed to retrieve calendar events. Please try again.")
				}
				return formatEvents(events), nil
			},
		},
		{
			Name:        "search_calendar_events",
			Description: "Search upcoming calendar events by free text.",
			Parameters: objectSchema(map[string]any{
				"query":       stringProp("Text to search event titles and descriptions for"),
				"max_results": integerProp("Maximum number of events to return, default 10"),
			}, "query"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					Query      string `json:"query"`
					MaxResults int64  `json:"max_results"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				events, err := svc.SearchEvents(ctx, a.Query, a.MaxResults)
				if err != nil {
					return failure("search_calendar_events", err, "Failed to search calendar events. Please try again.")
				}
				return formatEvents(events), nil
			},
		},
		{
			Name:        "create_calendar_event",
			Description: "Create a calendar event. Times are ISO format, e.g. 2025-03-14T15:00:00.",
			Parameters: objectSchema(map[string]any{
				"summary":     stringProp("Event title"),
				"start_time":  stringProp("Start time in ISO format"),
				"end_time":    stringProp("End time in ISO format, must be after start_time"),
				"description": stringProp("Optional event description"),
				"location":    stringProp("Optional event location"),
				"attendees":   stringProp("Optional comma-separated attendee email addresses"),
			}, "summary", "start_time", "end_time"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					Summary     string `json:"summary"`
					StartTime   string `json:"start_time"`
					EndTime     string `json:"end_time"`
					Description string `json:"description"`
					Location    string `json:"location"`
					Attendees   string `json:"attendees"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				input, err := parseEventTimes(a.StartTime, a.EndTime)
				if err != nil {
					return "", err
				}
				input.Summary = a.Summary
				input.Description = a.Description
				input.Location = a.Location
				input.Attendees = splitAddresses(a.Attendees)

				event, err := svc.CreateEvent(ctx, input)
				if err != nil {
					// Range violations go back to the model so it can fix
					// the times; everything else degrades to an apology.
					if errors.Is(err, calendardomain.ErrEndBeforeStart) {
						return "", err
					}
					return failure("create_calendar_event", err, "Failed to create the event. Please try again.")
				}
				return fmt.Sprintf("Event %q created for %s (id %s). Link: %s", event.Summary, event.Start, event.ID, event.HTMLLink), nil
			},
		},
		{
			Name:        "update_calendar_event",
			Description: "Update an existing calendar event. Only provided fields change.",
			Parameters: objectSchema(map[string]any{
				"event_id":    stringProp("Calendar event id"),
				"summary":     stringProp("New event title"),
				"start_time":  stringProp("New start time in ISO format"),
				"end_time":    stringProp("New end time in ISO format"),
				"description": stringProp("New event description"),
				"location":    stringProp("New event location"),
				"attendees":   stringProp("Comma-separated attendee emails, replaces the current list"),
			}, "event_id"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					EventID     string `json:"event_id"`
					Summary     string `json:"summary"`
					StartTime   string `json:"start_time"`
					EndTime     string `json:"end_time"`
					Description string `json:"description"`
					Location    string `json:"location"`
					Attendees   string `json:"attendees"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				input, err := parseEventTimes(a.StartTime, a.EndTime)
				if err != nil {
					return "", err
				}
				input.Summary = a.Summary
				input.Description = a.Description
				input.Location = a.Location
				input.Attendees = splitAddresses(a.Attendees)

				event, err := svc.UpdateEvent(ctx, a.EventID, input)
				if err != nil {
					return failure("update_calendar_event", err, "Failed to update the event. Please try again.")
				}
				return fmt.Sprintf("Event %q updated (id %s).", event.Summary, event.ID), nil
			},
		},
		{
			Name:        "delete_calendar_event",
			Description: "Delete a calendar event.",
			Parameters: objectSchema(map[string]any{
				"event_id": stringProp("Calendar event id"),
			}, "event_id"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					EventID string `json:"event_id"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				if err := svc.DeleteEvent(ctx, a.EventID); err != nil {
					return failure("delete_calendar_event", err, "Failed to delete the event. Please try again.")
				}
				return fmt.Sprintf("Event %s deleted.", a.EventID), nil
			},
		},
		{
			Name:        "get_event_details",
			Description: "Fetch one calendar event by id.",
			Parameters: objectSchema(map[string]any{
				"event_id": stringProp("Calendar event id"),
			}, "event_id"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					EventID string `json:"event_id"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				event, err := svc.GetEvent(ctx, a.EventID)
				if err != nil {
					return failure("get_event_details", err, "Failed to retrieve the event. Please try again.")
				}
				return formatEvents([]*calendardomain.Event{event}), nil
			},
		},
	}
}

func searchTools(svc SearchService) []ai.Tool {
	return []ai.Tool{
		{
			Name:        "search_web",
			Description: "Search the web and return the top results with links and snippets.",
			Parameters: objectSchema(map[string]any{
				"query":       stringProp("Search query"),
				"num_results": integerProp("Number of results to return, default 5"),
			}, "query"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					Query      string `json:"query"`
					NumResults int    `json:"num_results"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				results, err := svc.Search(ctx, a.Query, a.NumResults)
				if err != nil {
					return failure("search_web", err, "Failed to search the web. Please try again.")
				}
				if len(results) == 0 {
					return "No results found.", nil
				}
				var b strings.Builder
				for i, r := range results {
					if i > 0 {
						b.WriteString("\n")
					}
					fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.Link, r.Snippet)
				}
				return b.String(), nil
			},
		},
		{
			Name:        "fetch_web_page",
			Description: "Download a web page and return its raw content.",
			Parameters: objectSchema(map[string]any{
				"url": stringProp("URL of the page to fetch"),
			}, "url"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					URL string `json:"url"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				content, err := svc.FetchPage(ctx, a.URL)
				if err != nil {
					return failure("fetch_web_page", err, "Failed to fetch the page. Please try again.")
				}
				return content, nil
			},
		},
	}
}

func preferenceTools(store *prefrepo.Store) []ai.Tool {
	return []ai.Tool{
		{
			Name:        "get_user_preferences",
			Description: "Look up the stored preferences for a user.",
			Parameters: objectSchema(map[string]any{
				"user_id": stringProp("Identifier of the user"),
			}, "user_id"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					UserID string `json:"user_id"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				prefs, err := store.Get(a.UserID)
				if err != nil {
					return failure("get_user_preferences", err, "Failed to load preferences. Please try again.")
				}
				data, err := json.MarshalIndent(prefs, "", "  ")
				if err != nil {
					return "", fmt.Errorf("unable to encode preferences: %w", err)
				}
				return string(data), nil
			},
		},
		{
			Name:        "update_preference",
			Description: "Store new preference values for a user, e.g. their email signature or preferred greeting.",
			Parameters: objectSchema(map[string]any{
				"user_id":     stringProp("Identifier of the user"),
				"preferences": stringProp("JSON object of preference keys and values to set"),
			}, "user_id", "preferences"),
			Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
				var a struct {
					UserID      string `json:"user_id"`
					Preferences string `json:"preferences"`
				}
				if err := json.Unmarshal(args, &a); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				var updates map[string]any
				if err := json.Unmarshal([]byte(a.Preferences), &updates); err != nil {
					return "", fmt.Errorf("preferences must be a JSON object: %w", err)
				}
				if _, err := store.Update(a.UserID, updates); err != nil {
					return failure("update_preference", err, "Failed to update preferences. Please try again.")
				}
				return "Preferences updated.", nil
			},
		},
	}
}

func splitAddresses(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
