package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// OllamaRunner drives agents against a local Ollama server using its
// /api/chat endpoint.
type OllamaRunner struct {
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

func NewOllamaRunner(baseURL, defaultModel string) *OllamaRunner {
	return &OllamaRunner{
		baseURL:      baseURL,
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (r *OllamaRunner) Name() string {
	return "ollama"
}

type ollamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
}

type ollamaToolCall struct {
	Function struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"function"`
}

type ollamaTool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	} `json:"function"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Tools    []ollamaTool    `json:"tools,omitempty"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// Run executes the tool-calling loop against Ollama, following handoffs
// to other agents as they occur.
func (r *OllamaRunner) Run(ctx context.Context, agent *Agent, messages []Message) (string, error) {
	history := make([]ollamaMessage, 0, len(messages)+1)
	history = append(history, ollamaMessage{Role: RoleSystem, Content: agent.Instructions})
	for _, msg := range messages {
		history = append(history, ollamaMessage{Role: msg.Role, Content: msg.Content})
	}

	for turn := 0; turn < maxTurns; turn++ {
		reply, err := r.chat(ctx, ollamaChatRequest{
			Model:    r.modelFor(agent),
			Messages: history,
			Tools:    r.convertTools(agent),
			Stream:   false,
		})
		if err != nil {
			return "", err
		}

		if len(reply.Message.ToolCalls) == 0 {
			return reply.Message.Content, nil
		}

		history = append(history, reply.Message)

		for _, call := range reply.Message.ToolCalls {
			if target := findHandoff(agent, call.Function.Name); target != nil {
				log.Printf("[DEBUG] handing off from %s to %s", agent.Name, target.Name)
				agent = target
				history = append(history,
					ollamaMessage{Role: RoleTool, Content: fmt.Sprintf("Transferred to %s.", agent.Name)},
					ollamaMessage{Role: RoleSystem, Content: agent.Instructions},
				)
				continue
			}

			history = append(history, ollamaMessage{
				Role:    RoleTool,
				Content: r.executeTool(ctx, agent, call),
			})
		}
	}

	return "", fmt.Errorf("agent %s exceeded %d turns without a final answer", agent.Name, maxTurns)
}

func (r *OllamaRunner) chat(ctx context.Context, chatReq ollamaChatRequest) (*ollamaChatResponse, error) {
	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("unable to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("unable to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var reply ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("unable to decode ollama response: %w", err)
	}

	return &reply, nil
}

func (r *OllamaRunner) modelFor(agent *Agent) string {
	if agent.Model != "" {
		return agent.Model
	}
	return r.defaultModel
}

func (r *OllamaRunner) executeTool(ctx context.Context, agent *Agent, call ollamaToolCall) string {
	tool := findTool(agent, call.Function.Name)
	if tool == nil {
		return fmt.Sprintf("Error: unknown tool %q", call.Function.Name)
	}

	args, err := json.Marshal(call.Function.Arguments)
	if err != nil {
		return fmt.Sprintf("Error: invalid tool arguments: %v", err)
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		log.Printf("[ERROR] tool %s failed: %v", call.Function.Name, err)
		return fmt.Sprintf("Error: %v", err)
	}
	return result
}

func (r *OllamaRunner) convertTools(agent *Agent) []ollamaTool {
	var result []ollamaTool

	addTool := func(name, description string, parameters map[string]any) {
		t := ollamaTool{Type: "function"}
		t.Function.Name = name
		t.Function.Description = description
		t.Function.Parameters = parameters
		result = append(result, t)
	}

	for _, tool := range agent.Tools {
		addTool(tool.Name, tool.Description, tool.Parameters)
	}
	for _, target := range agent.Handoffs {
		addTool(
			handoffToolName(target),
			fmt.Sprintf("Transfer the conversation to %s. Use this when the request is better handled by that assistant.", target.Name),
			map[string]any{"type": "object", "properties": map[string]any{}},
		)
	}

	return result
}
