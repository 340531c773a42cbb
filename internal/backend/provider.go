// Package backend sends finalized prompts to configured language-model
// providers. The engine renders one text blob; providers receive it as a
// single user message with no model-specific formatting on top.
package backend

import (
	"context"
	"fmt"

	"github.com/promptforge/promptforge/internal/config"
)

// Provider sends one prompt and returns the model reply.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// New creates a Provider from one backend config entry.
func New(cfg config.BackendConfig) (Provider, error) {
	switch cfg.Type {
	case "openai":
		return newOpenAIProvider(cfg)
	case "anthropic":
		return newAnthropicProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown backend type %q", cfg.Type)
	}
}

// Select resolves which configured backend entry to use: the requested
// name, else the configured default, else the sole entry.
func Select(cfg config.BackendsConfig, name string) (config.BackendConfig, error) {
	if name == "" {
		name = cfg.Default
	}
	if name == "" {
		if len(cfg.Providers) == 1 {
			return cfg.Providers[0], nil
		}
		return config.BackendConfig{}, fmt.Errorf("no backend requested and no default configured")
	}
	for _, b := range cfg.Providers {
		if b.Name == name {
			return b, nil
		}
	}
	return config.BackendConfig{}, fmt.Errorf("backend %q is not configured", name)
}
