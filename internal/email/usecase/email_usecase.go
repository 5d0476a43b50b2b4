package usecase

import (
	"context"

	"assistant-backend/internal/email/domain"
)

// GmailService is the slice of the Gmail client this feature needs.
type GmailService interface {
	SendEmail(ctx context.Context, to, subject, body, cc, bcc string) (string, error)
	UnreadEmails(ctx context.Context, maxResults int64) ([]*domain.Email, error)
	SearchEmails(ctx context.Context, query string, maxResults int64) ([]*domain.Email, error)
	GetThread(ctx context.Context, threadID string) ([]*domain.Email, error)
	MarkAsRead(ctx context.Context, messageID string) error
}

type EmailUsecase struct {
	gmail GmailService
}

func NewEmailUsecase(gmail GmailService) *EmailUsecase {
	return &EmailUsecase{gmail: gmail}
}

func (u *EmailUsecase) Send(ctx context.Context, to, subject, body, cc, bcc string) (string, error) {
	return u.gmail.SendEmail(ctx, to, subject, body, cc, bcc)
}

func (u *EmailUsecase) Unread(ctx context.Context, maxResults int64) ([]*domain.Email, error) {
	return u.gmail.UnreadEmails(ctx, maxResults)
}

func (u *EmailUsecase) Search(ctx context.Context, query string, maxResults int64) ([]*domain.Email, error) {
	return u.gmail.SearchEmails(ctx, query, maxResults)
}

func (u *EmailUsecase) Thread(ctx context.Context, threadID string) ([]*domain.Email, error) {
	return u.gmail.GetThread(ctx, threadID)
}

func (u *EmailUsecase) MarkAsRead(ctx context.Context, messageID string) error {
	return u.gmail.MarkAsRead(ctx, messageID)
}
