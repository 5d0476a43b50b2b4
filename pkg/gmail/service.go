package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"sync"

	emaildomain "assistant-backend/internal/email/domain"
	"assistant-backend/pkg/google"

	gmailapi "google.golang.org/api/gmail/v1"
)

const (
	gmailUser   = "me"
	unreadQuery = "is:unread in:inbox"
)

// Service wraps the Gmail API for the operations the assistant needs.
// The underlying API handle is created lazily on first use and cached
// for the lifetime of the Service.
type Service struct {
	auth *google.Auth

	mu  sync.Mutex
	svc *gmailapi.Service
}

func NewService(auth *google.Auth) *Service {
	return &Service{auth: auth}
}

func (s *Service) service(ctx context.Context) (*gmailapi.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.svc != nil {
		return s.svc, nil
	}

	svc, err := s.auth.GmailService(ctx)
	if err != nil {
		return nil, fmt.Errorf("gmail authentication failed: %w", err)
	}
	s.svc = svc
	return svc, nil
}

// SendEmail sends a plain-text email and returns the sent message id.
// cc and bcc may be empty.
func (s *Service) SendEmail(ctx context.Context, to, subject, body, cc, bcc string) (string, error) {
	if to == "" {
		return "", fmt.Errorf("recipient is required")
	}

	svc, err := s.service(ctx)
	if err != nil {
		return "", err
	}

	var msg strings.Builder
	msg.WriteString("To: " + to + "\r\n")
	if cc != "" {
		msg.WriteString("Cc: " + cc + "\r\n")
	}
	if bcc != "" {
		msg.WriteString("Bcc: " + bcc + "\r\n")
	}
	msg.WriteString("Subject: " + encodeHeader(subject) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(body)

	sent, err := svc.Users.Messages.Send(gmailUser, &gmailapi.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(msg.String())),
	}).Do()
	if err != nil {
		return "", fmt.Errorf("unable to send message: %w", err)
	}

	return sent.Id, nil
}

// UnreadEmails returns up to maxResults unread inbox messages with full bodies.
func (s *Service) UnreadEmails(ctx context.Context, maxResults int64) ([]*emaildomain.Email, error) {
	return s.listMessages(ctx, unreadQuery, maxResults, true)
}

// SearchEmails returns messages matching a Gmail search query. Bodies are
// omitted; callers that need content should fetch the thread.
func (s *Service) SearchEmails(ctx context.Context, query string, maxResults int64) ([]*emaildomain.Email, error) {
	return s.listMessages(ctx, query, maxResults, false)
}

func (s *Service) listMessages(ctx context.Context, query string, maxResults int64, withBody bool) ([]*emaildomain.Email, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = 10
	}

	res, err := svc.Users.Messages.List(gmailUser).Q(query).MaxResults(maxResults).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %w", err)
	}

	emails := make([]*emaildomain.Email, 0, len(res.Messages))
	for _, m := range res.Messages {
		full, err := svc.Users.Messages.Get(gmailUser, m.Id).Format("full").Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve message %s: %w", m.Id, err)
		}
		email := convertMessage(full, withBody)
		emails = append(emails, email)
	}

	return emails, nil
}

// GetEmail returns a single message with its decoded body.
func (s *Service) GetEmail(ctx context.Context, messageID string) (*emaildomain.Email, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := svc.Users.Messages.Get(gmailUser, messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message %s: %w", messageID, err)
	}

	return convertMessage(msg, true), nil
}

// GetThread returns all messages in a thread with decoded bodies.
func (s *Service) GetThread(ctx context.Context, threadID string) ([]*emaildomain.Email, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	thread, err := svc.Users.Threads.Get(gmailUser, threadID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve thread %s: %w", threadID, err)
	}

	messages := make([]*emaildomain.Email, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		messages = append(messages, convertMessage(m, true))
	}

	return messages, nil
}

// MarkAsRead removes the UNREAD label from a message.
func (s *Service) MarkAsRead(ctx context.Context, messageID string) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}

	_, err = svc.Users.Messages.Modify(gmailUser, messageID, &gmailapi.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Do()
	if err != nil {
		return fmt.Errorf("unable to mark message as read: %w", err)
	}
	return nil
}

// Helper functions

func convertMessage(msg *gmailapi.Message, withBody bool) *emaildomain.Email {
	email := &emaildomain.Email{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Sender:   headerOr(msg.Payload, "From", "Unknown"),
		Subject:  headerOr(msg.Payload, "Subject", "No Subject"),
		Date:     headerOr(msg.Payload, "Date", "Unknown"),
		Snippet:  msg.Snippet,
	}
	if withBody {
		email.Body = messageBody(msg.Payload)
	}
	return email
}

func headerOr(payload *gmailapi.MessagePart, name, fallback string) string {
	if payload == nil {
		return fallback
	}
	for _, h := range payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return fallback
}

// messageBody walks the MIME tree and returns the first text/plain part,
// falling back to the payload's own body data.
func messageBody(payload *gmailapi.MessagePart) string {
	if payload == nil {
		return "No message body found."
	}

	var findPlain func(parts []*gmailapi.MessagePart) string
	findPlain = func(parts []*gmailapi.MessagePart) string {
		for _, part := range parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				if data, err := base64.URLEncoding.DecodeString(part.Body.Data); err == nil {
					return string(data)
				}
			}
			if len(part.Parts) > 0 {
				if body := findPlain(part.Parts); body != "" {
					return body
				}
			}
		}
		return ""
	}

	if body := findPlain(payload.Parts); body != "" {
		return body
	}

	if payload.Body != nil && payload.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(payload.Body.Data); err == nil {
			return string(data)
		}
	}

	return "No message body found."
}

// encodeHeader encodes a header value per RFC 2047 when it contains
// non-ASCII characters.
func encodeHeader(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
