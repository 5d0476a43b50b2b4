package ai

import (
	"context"
	"encoding/json"
)

// Message roles used across providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry in a conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool is a function the model may call. Parameters holds a JSON schema
// object describing the arguments; Execute receives the raw argument
// JSON produced by the model.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Execute     func(ctx context.Context, args json.RawMessage) (string, error)
}

// Agent binds a system prompt, a model name, tools, and the agents it
// may hand the conversation off to.
type Agent struct {
	Name         string
	Instructions string
	Model        string
	Tools        []Tool
	Handoffs     []*Agent
}

// Runner drives an agent to completion over a conversation history and
// returns the final assistant reply.
type Runner interface {
	Run(ctx context.Context, agent *Agent, messages []Message) (string, error)
	Name() string
}

// maxTurns bounds the tool-calling loop so a misbehaving model cannot
// spin forever.
const maxTurns = 10

// findTool returns the agent's tool with the given name, or nil.
func findTool(agent *Agent, name string) *Tool {
	for i := range agent.Tools {
		if agent.Tools[i].Name == name {
			return &agent.Tools[i]
		}
	}
	return nil
}

// handoffToolName is the synthetic tool name under which a handoff
// target agent is exposed to the model.
func handoffToolName(target *Agent) string {
	return "transfer_to_" + sanitizeName(target.Name)
}

// findHandoff resolves a synthetic transfer tool name back to the
// target agent, or nil if the name is not a handoff.
func findHandoff(agent *Agent, toolName string) *Agent {
	for _, target := range agent.Handoffs {
		if handoffToolName(target) == toolName {
			return target
		}
	}
	return nil
}

func sanitizeName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_':
			out = append(out, c)
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
