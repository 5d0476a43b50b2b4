package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"assistant-backend/internal/assistant/domain"
	"assistant-backend/internal/assistant/repository"
	prefrepo "assistant-backend/internal/preferences/repository"
	"assistant-backend/pkg/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	reply    string
	err      error
	seen     []ai.Message
	seenName string
}

func (r *stubRunner) Name() string { return "stub" }

func (r *stubRunner) Run(ctx context.Context, agent *ai.Agent, messages []ai.Message) (string, error) {
	r.seen = append([]ai.Message{}, messages...)
	r.seenName = agent.Name
	return r.reply, r.err
}

func newTestUsecase(t *testing.T, runner ai.Runner) *AssistantUsecase {
	t.Helper()
	prefs, err := prefrepo.NewStore(t.TempDir())
	require.NoError(t, err)

	agents := &Agents{
		Assistant: &ai.Agent{Name: "Personal Assistant"},
		Email:     &ai.Agent{Name: "Email Assistant"},
		Calendar:  &ai.Agent{Name: "Calendar Assistant"},
	}
	return NewAssistantUsecase(runner, agents, repository.NewMemoryRepository(), prefs)
}

func TestChatSeedsContextMessage(t *testing.T) {
	runner := &stubRunner{reply: "hi there"}
	u := newTestUsecase(t, runner)

	reply, err := u.Chat(context.Background(), "alice", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)

	require.NotEmpty(t, runner.seen)
	assert.Equal(t, ai.RoleSystem, runner.seen[0].Role)
	assert.Contains(t, runner.seen[0].Content, `"alice"`)
	assert.Contains(t, runner.seen[0].Content, "preferred_greeting")
	assert.Equal(t, "hello", runner.seen[len(runner.seen)-1].Content)
}

func TestChatRoutesToRequestedAgent(t *testing.T) {
	runner := &stubRunner{reply: "ok"}
	u := newTestUsecase(t, runner)

	_, err := u.ChatEmail(context.Background(), "alice", "any unread mail?")
	require.NoError(t, err)
	assert.Equal(t, "Email Assistant", runner.seenName)

	_, err = u.ChatCalendar(context.Background(), "alice", "what's on today?")
	require.NoError(t, err)
	assert.Equal(t, "Calendar Assistant", runner.seenName)
}

func TestChatKeepsHistoryAcrossTurns(t *testing.T) {
	runner := &stubRunner{reply: "reply"}
	u := newTestUsecase(t, runner)

	_, err := u.Chat(context.Background(), "alice", "first")
	require.NoError(t, err)
	_, err = u.Chat(context.Background(), "alice", "second")
	require.NoError(t, err)

	// context + first turn (user, assistant) + second user message
	require.Len(t, runner.seen, 4)
	assert.Equal(t, "first", runner.seen[1].Content)
	assert.Equal(t, "reply", runner.seen[2].Content)
	assert.Equal(t, "second", runner.seen[3].Content)
}

func TestChatTrimsLongHistories(t *testing.T) {
	runner := &stubRunner{reply: "reply"}
	u := newTestUsecase(t, runner)

	for i := 0; i < 30; i++ {
		_, err := u.Chat(context.Background(), "alice", fmt.Sprintf("turn %d", i))
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, len(runner.seen), domain.MaxHistoryEntries+1)
	assert.Equal(t, ai.RoleSystem, runner.seen[0].Role)
}

func TestChatApologizesWhenRunnerFails(t *testing.T) {
	runner := &stubRunner{err: errors.New("provider down")}
	u := newTestUsecase(t, runner)

	reply, err := u.Chat(context.Background(), "alice", "hello")
	require.NoError(t, err)
	assert.Equal(t, apologyReply, reply)
}

func TestChatValidatesInput(t *testing.T) {
	u := newTestUsecase(t, &stubRunner{})

	_, err := u.Chat(context.Background(), "", "hello")
	assert.Error(t, err)

	_, err = u.Chat(context.Background(), "alice", "")
	assert.Error(t, err)
}

func TestClearConversationStartsFresh(t *testing.T) {
	runner := &stubRunner{reply: "reply"}
	u := newTestUsecase(t, runner)

	_, err := u.Chat(context.Background(), "alice", "first")
	require.NoError(t, err)
	require.NoError(t, u.ClearConversation(context.Background(), "alice"))

	_, err = u.Chat(context.Background(), "alice", "second")
	require.NoError(t, err)

	// context + the new user message only
	assert.Len(t, runner.seen, 2)
}
