package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"assistant-backend/internal/assistant/domain"
	"assistant-backend/internal/assistant/repository"
	prefrepo "assistant-backend/internal/preferences/repository"
	"assistant-backend/pkg/ai"
)

const apologyReply = "I'm sorry, I encountered an error while processing your message. Please try again."

// AssistantUsecase runs chat turns against the agent graph and keeps
// per-user conversation history.
type AssistantUsecase struct {
	runner ai.Runner
	agents *Agents
	conversations  repository.ConversationRepository
	prefs  *prefrepo.Store
}

func NewAssistantUsecase(runner ai.Runner, agents *Agents, conversations repository.ConversationRepository, prefs *prefrepo.Store) *AssistantUsecase {
	return &AssistantUsecase{
		runner: runner,
		agents: agents,
		conversations:  conversations,
		prefs:  prefs,
	}
}

// Chat runs one turn with the general assistant.
func (u *AssistantUsecase) Chat(ctx context.Context, userID, message string) (string, error) {
	return u.process(ctx, userID, message, u.agents.Assistant)
}

// ChatEmail runs one turn directly with the email specialist.
func (u *AssistantUsecase) ChatEmail(ctx context.Context, userID, message string) (string, error) {
	return u.process(ctx, userID, message, u.agents.Email)
}

// ChatCalendar runs one turn directly with the calendar specialist.
func (u *AssistantUsecase) ChatCalendar(ctx context.Context, userID, message string) (string, error) {
	return u.process(ctx, userID, message, u.agents.Calendar)
}

// ClearConversation drops the stored history for a user.
func (u *AssistantUsecase) ClearConversation(ctx context.Context, userID string) error {
	return u.conversations.Delete(ctx, userID)
}

func (u *AssistantUsecase) process(ctx context.Context, userID, message string, agent *ai.Agent) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user_id is required")
	}
	if message == "" {
		return "", fmt.Errorf("message is required")
	}

	conv, err := u.conversations.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if conv == nil {
		conv = &domain.Conversation{
			UserID:   userID,
			Messages: []ai.Message{u.contextMessage(userID)},
		}
	}

	conv.Messages = append(conv.Messages, ai.Message{Role: ai.RoleUser, Content: message})

	reply, err := u.runner.Run(ctx, agent, conv.Messages)
	if err != nil {
		log.Printf("[ERROR] agent %s failed for user %s: %v", agent.Name, userID, err)
		return apologyFor(agent, u.agents), nil
	}

	conv.Messages = append(conv.Messages, ai.Message{Role: ai.RoleAssistant, Content: reply})
	conv.Trim()

	if err := u.conversations.Save(ctx, conv); err != nil {
		log.Printf("[WARN] unable to save conversation for user %s: %v", userID, err)
	}

	return reply, nil
}

func apologyFor(agent *ai.Agent, agents *Agents) string {
	switch agent {
	case agents.Email:
		return "I'm sorry, I encountered an error while processing your email request. Please try again."
	case agents.Calendar:
		return "I'm sorry, I encountered an error while processing your calendar request. Please try again."
	default:
		return apologyReply
	}
}

// contextMessage seeds a fresh conversation with the user's identity and
// stored preferences so agents can personalize replies.
func (u *AssistantUsecase) contextMessage(userID string) ai.Message {
	content := fmt.Sprintf("The current user's id is %q.", userID)

	if prefs, err := u.prefs.Get(userID); err == nil {
		if data, err := json.Marshal(prefs); err == nil {
			content += " Their stored preferences: " + string(data)
		}
	} else {
		log.Printf("[WARN] unable to load preferences for user %s: %v", userID, err)
	}

	return ai.Message{Role: ai.RoleSystem, Content: content}
}
