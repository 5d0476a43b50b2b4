package domain

import (
	"time"

	"assistant-backend/pkg/ai"
)

// MaxHistoryEntries caps stored conversation length. When trimming, the
// first entry is kept because it carries the user's context.
const MaxHistoryEntries = 20

// Conversation is a user's chat history with the assistant.
type Conversation struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Messages  []ai.Message `json:"messages"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Trim enforces MaxHistoryEntries, preserving the first entry and the
// most recent ones.
func (c *Conversation) Trim() {
	if len(c.Messages) <= MaxHistoryEntries {
		return
	}
	trimmed := make([]ai.Message, 0, MaxHistoryEntries)
	trimmed = append(trimmed, c.Messages[0])
	trimmed = append(trimmed, c.Messages[len(c.Messages)-(MaxHistoryEntries-1):]...)
	c.Messages = trimmed
}
