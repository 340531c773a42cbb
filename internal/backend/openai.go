package backend

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"

	"github.com/promptforge/promptforge/internal/config"
)

// openaiProvider talks to any OpenAI-compatible chat completion API.
type openaiProvider struct {
	client    *openai.Client
	name      string
	model     string
	maxTokens int
}

func newOpenAIProvider(cfg config.BackendConfig) (*openaiProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for backend %q", cfg.Name)
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &openaiProvider{
		client:    openai.NewClientWithConfig(clientConfig),
		name:      cfg.Name,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Name returns the configured backend name
func (p *openaiProvider) Name() string {
	return p.name
}

// Complete sends the prompt as a single user message
func (p *openaiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: p.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}
