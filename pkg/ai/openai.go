package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIRunner drives agents against the OpenAI chat completions API.
type OpenAIRunner struct {
	client       openai.Client
	defaultModel string
}

func NewOpenAIRunner(apiKey, defaultModel string) (*OpenAIRunner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return &OpenAIRunner{
		client:       openai.NewClient(option.WithAPIKey(apiKey)),
		defaultModel: defaultModel,
	}, nil
}

func (r *OpenAIRunner) Name() string {
	return "openai"
}

// Run executes the tool-calling loop until the model produces a plain
// assistant reply, following handoffs to other agents as they occur.
func (r *OpenAIRunner) Run(ctx context.Context, agent *Agent, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(r.modelFor(agent)),
		Messages: r.convertMessages(agent, messages),
		Tools:    r.convertTools(agent),
	}

	for turn := 0; turn < maxTurns; turn++ {
		completion, err := r.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("chat completion returned no choices")
		}

		msg := completion.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		params.Messages = append(params.Messages, msg.ToParam())

		for _, call := range msg.ToolCalls {
			if target := findHandoff(agent, call.Function.Name); target != nil {
				log.Printf("[DEBUG] handing off from %s to %s", agent.Name, target.Name)
				agent = target
				params.Model = shared.ChatModel(r.modelFor(agent))
				params.Tools = r.convertTools(agent)
				params.Messages = append(params.Messages,
					openai.ToolMessage(fmt.Sprintf("Transferred to %s.", agent.Name), call.ID),
					openai.SystemMessage(agent.Instructions))
				continue
			}

			result := r.executeTool(ctx, agent, call.Function.Name, call.Function.Arguments)
			params.Messages = append(params.Messages, openai.ToolMessage(result, call.ID))
		}
	}

	return "", fmt.Errorf("agent %s exceeded %d turns without a final answer", agent.Name, maxTurns)
}

func (r *OpenAIRunner) modelFor(agent *Agent) string {
	if agent.Model != "" {
		return agent.Model
	}
	return r.defaultModel
}

func (r *OpenAIRunner) executeTool(ctx context.Context, agent *Agent, name, arguments string) string {
	tool := findTool(agent, name)
	if tool == nil {
		return fmt.Sprintf("Error: unknown tool %q", name)
	}

	result, err := tool.Execute(ctx, json.RawMessage(arguments))
	if err != nil {
		log.Printf("[ERROR] tool %s failed: %v", name, err)
		return fmt.Sprintf("Error: %v", err)
	}
	return result
}

func (r *OpenAIRunner) convertMessages(agent *Agent, messages []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	result = append(result, openai.SystemMessage(agent.Instructions))

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}

	return result
}

func (r *OpenAIRunner) convertTools(agent *Agent) []openai.ChatCompletionToolParam {
	var result []openai.ChatCompletionToolParam

	for _, tool := range agent.Tools {
		result = append(result, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  shared.FunctionParameters(tool.Parameters),
			},
		})
	}

	for _, target := range agent.Handoffs {
		result = append(result, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        handoffToolName(target),
				Description: openai.String(fmt.Sprintf("Transfer the conversation to %s. Use this when the request is better handled by that assistant.", target.Name)),
				Parameters: shared.FunctionParameters(map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				}),
			},
		})
	}

	return result
}
