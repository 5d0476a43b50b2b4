package usecase

import (
	prefrepo "assistant-backend/internal/preferences/repository"
	"assistant-backend/pkg/ai"
)

const emailAgentInstructions = `You are an email assistant with access to the user's Gmail account.
You can send emails, list unread messages, search the mailbox, read threads, and mark messages as read.
Confirm recipient, subject, and body with the user before sending anything.
When listing emails, include the sender, subject, and date so the user can tell them apart.`

const calendarAgentInstructions = `You are a calendar assistant with access to the user's Google Calendar.
You can list upcoming events, search events, and create, update, or delete them.
All event times use ISO format (YYYY-MM-DDTHH:MM:SS). Always confirm the details of an event before creating or deleting it.
If the user gives a vague time like "tomorrow afternoon", ask for a concrete time instead of guessing.`

const assistantInstructions = `You are a personal assistant. You help the user manage their email, their calendar, and answer questions using web search.
Hand email requests off to the email assistant and calendar requests off to the calendar assistant.
Use the preference tools to remember how the user likes to be addressed and how their emails should be signed.
Be concise and practical.`

// Agents holds the configured agent graph. Assistant is the entry point
// and can hand off to the two specialists.
type Agents struct {
	Assistant *ai.Agent
	Email     *ai.Agent
	Calendar  *ai.Agent
}

// BuildAgents wires the three agents and their tools.
func BuildAgents(email EmailService, calendar CalendarService, search SearchService, prefs *prefrepo.Store) *Agents {
	emailAgent := &ai.Agent{
		Name:         "Email Assistant",
		Instructions: emailAgentInstructions,
		Tools:        emailTools(email),
	}

	calendarAgent := &ai.Agent{
		Name:         "Calendar Assistant",
		Instructions: calendarAgentInstructions,
		Tools:        calendarTools(calendar),
	}

	var assistantTools []ai.Tool
	assistantTools = append(assistantTools, searchTools(search)...)
	assistantTools = append(assistantTools, preferenceTools(prefs)...)

	assistant := &ai.Agent{
		Name:         "Personal Assistant",
		Instructions: assistantInstructions,
		Tools:        assistantTools,
		Handoffs:     []*ai.Agent{emailAgent, calendarAgent},
	}

	// Specialists can hand the conversation back.
	emailAgent.Handoffs = []*ai.Agent{assistant, calendarAgent}
	calendarAgent.Handoffs = []*ai.Agent{assistant, emailAgent}

	return &Agents{
		Assistant: assistant,
		Email:     emailAgent,
		Calendar:  calendarAgent,
	}
}
