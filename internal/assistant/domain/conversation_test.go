package domain

import (
	"fmt"
	"testing"

	"assistant-backend/pkg/ai"

	"github.com/stretchr/testify/assert"
)

func TestTrimKeepsShortHistories(t *testing.T) {
	conv := &Conversation{Messages: []ai.Message{
		{Role: ai.RoleSystem, Content: "context"},
		{Role: ai.RoleUser, Content: "hi"},
	}}

	conv.Trim()

	assert.Len(t, conv.Messages, 2)
}

func TestTrimPreservesContextAndRecentMessages(t *testing.T) {
	conv := &Conversation{Messages: []ai.Message{{Role: ai.RoleSystem, Content: "context"}}}
	for i := 0; i < 50; i++ {
		conv.Messages = append(conv.Messages, ai.Message{Role: ai.RoleUser, Content: fmt.Sprintf("msg %d", i)})
	}

	conv.Trim()

	assert.Len(t, conv.Messages, MaxHistoryEntries)
	assert.Equal(t, "context", conv.Messages[0].Content)
	assert.Equal(t, "msg 49", conv.Messages[len(conv.Messages)-1].Content)
	// The oldest non-context messages are dropped.
	assert.Equal(t, "msg 31", conv.Messages[1].Content)
}
