package repository

import (
	"context"
	"sync"
	"time"

	"assistant-backend/internal/assistant/domain"
	"assistant-backend/pkg/ai"

	"github.com/google/uuid"
)

// MemoryRepository keeps conversations in process memory. Histories are
// lost on restart.
type MemoryRepository struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{conversations: make(map[string]*domain.Conversation)}
}

func (r *MemoryRepository) Get(ctx context.Context, userID string) (*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[userID]
	if !ok {
		return nil, nil
	}

	// Copy so callers can mutate freely.
	messages := make([]ai.Message, len(conv.Messages))
	copy(messages, conv.Messages)
	return &domain.Conversation{
		ID:        conv.ID,
		UserID:    conv.UserID,
		Messages:  messages,
		UpdatedAt: conv.UpdatedAt,
	}, nil
}

func (r *MemoryRepository) Save(ctx context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	conv.UpdatedAt = time.Now().UTC()

	messages := make([]ai.Message, len(conv.Messages))
	copy(messages, conv.Messages)
	r.conversations[conv.UserID] = &domain.Conversation{
		ID:        conv.ID,
		UserID:    conv.UserID,
		Messages:  messages,
		UpdatedAt: conv.UpdatedAt,
	}
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.conversations, userID)
	return nil
}
