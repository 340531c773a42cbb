package backend

import (
	"context"
	"fmt"
	"os"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/promptforge/promptforge/internal/config"
)

// anthropicProvider talks to the Anthropic Messages API.
type anthropicProvider struct {
	client    *anthropic.Client
	name      string
	model     string
	maxTokens int
}

func newAnthropicProvider(cfg config.BackendConfig) (*anthropicProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for backend %q", cfg.Name)
	}

	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "claude-3-7-sonnet-latest"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &anthropicProvider{
		client:    anthropic.NewClient(apiKey, opts...),
		name:      cfg.Name,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Name returns the configured backend name
func (p *anthropicProvider) Name() string {
	return p.name
}

// Complete sends the prompt as a single user message
func (p *anthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(p.model),
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
		MaxTokens: p.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", p.name, err)
	}
	return resp.GetFirstContentText(), nil
}
