package repository

import (
	"context"

	"assistant-backend/internal/assistant/domain"
)

// ConversationRepository stores per-user chat histories.
type ConversationRepository interface {
	// Get returns the user's conversation, or nil if none exists.
	Get(ctx context.Context, userID string) (*domain.Conversation, error)
	Save(ctx context.Context, conv *domain.Conversation) error
	Delete(ctx context.Context, userID string) error
}
