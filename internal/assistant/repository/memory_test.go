package repository

import (
	"context"
	"testing"

	"assistant-backend/internal/assistant/domain"
	"assistant-backend/pkg/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	conv, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, conv)

	err = repo.Save(ctx, &domain.Conversation{
		UserID:   "alice",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	conv, err = repo.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.NotEmpty(t, conv.ID)
	assert.False(t, conv.UpdatedAt.IsZero())
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "hi", conv.Messages[0].Content)
}

func TestMemoryRepositoryIsolatesCallers(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Conversation{
		UserID:   "alice",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	}))

	conv, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	conv.Messages[0].Content = "mutated"

	again, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hi", again.Messages[0].Content)
}

func TestMemoryRepositoryDelete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Conversation{UserID: "alice"}))
	require.NoError(t, repo.Delete(ctx, "alice"))

	conv, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, conv)

	// Deleting a missing conversation is not an error.
	assert.NoError(t, repo.Delete(ctx, "bob"))
}
