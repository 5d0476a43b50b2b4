package ai

import (
	"context"
	"fmt"
	"log"
)

// ProviderType selects which backend drives the agents.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)

// Config holds runner configuration for all providers.
type Config struct {
	Provider ProviderType

	// OpenAI config
	OpenAIAPIKey string
	OpenAIModel  string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// NewRunner creates a Runner based on the config. This is the factory
// function; switch providers by changing cfg.Provider.
func NewRunner(cfg Config) (Runner, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIRunner(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	case ProviderOllama:
		return NewOllamaRunner(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	default:
		// Prefer OpenAI when a key is available, with Ollama as the
		// local fallback.
		if cfg.OpenAIAPIKey != "" {
			primary, err := NewOpenAIRunner(cfg.OpenAIAPIKey, cfg.OpenAIModel)
			if err != nil {
				return nil, err
			}
			return NewFallbackRunner(primary, NewOllamaRunner(cfg.OllamaBaseURL, cfg.OllamaModel)), nil
		}
		return NewOllamaRunner(cfg.OllamaBaseURL, cfg.OllamaModel), nil
	}
}

// FallbackRunner tries each runner in order until one succeeds.
type FallbackRunner struct {
	runners []Runner
}

func NewFallbackRunner(runners ...Runner) *FallbackRunner {
	return &FallbackRunner{runners: runners}
}

func (r *FallbackRunner) Name() string {
	return "fallback"
}

func (r *FallbackRunner) Run(ctx context.Context, agent *Agent, messages []Message) (string, error) {
	var lastErr error
	for _, runner := range r.runners {
		reply, err := runner.Run(ctx, agent, messages)
		if err == nil {
			return reply, nil
		}
		log.Printf("[WARN] %s runner failed, trying next: %v", runner.Name(), err)
		lastErr = err
	}
	return "", fmt.Errorf("all AI providers failed: %w", lastErr)
}
