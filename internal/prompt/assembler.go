// Package prompt implements the prompt assembly engine: template
// resolution, placeholder substitution, optional conversation-context
// prefixing, and a token budget check, all in one synchronous call. The
// engine does no I/O; template storage, transports, and model backends
// live with the callers.
package prompt

import "fmt"

// Input is one assembly request. Every field is optional; an all-empty
// Input renders the empty string.
type Input struct {
	// TemplateID selects a configured template. Unknown identifiers are
	// not an error: the request falls back to Prompt.
	TemplateID string `json:"template_id,omitempty"`
	// Prompt is the raw text used when no configured template matches.
	Prompt string `json:"prompt,omitempty"`
	// Variables override the configured defaults per key.
	Variables map[string]Value `json:"variables,omitempty"`
	// Context holds conversation history items, oldest first.
	Context []Value `json:"context,omitempty"`
}

// Metadata describes how a Result was produced.
type Metadata struct {
	// TemplateUsed is the template identifier when a configured template
	// was rendered, empty when the raw prompt was used.
	TemplateUsed string `json:"template_used,omitempty"`
	// VariablesReplacedCount is the size of the effective variable map
	// (defaults overlaid with request variables), not the number of
	// substitution hits.
	VariablesReplacedCount int `json:"variables_replaced_count"`
	// EstimatedTokens is the budget estimate for RenderedText.
	EstimatedTokens int `json:"estimated_tokens"`
	// ContextIncluded reports whether a context prefix was prepended.
	ContextIncluded bool `json:"context_included"`
}

// Result is a successful assembly.
type Result struct {
	RenderedText string   `json:"rendered_text"`
	Metadata     Metadata `json:"metadata"`
}

// Assembler renders prompts against one immutable configuration. A shared
// Assembler is safe for any number of concurrent Invoke calls; changing
// configuration means building a new one and swapping the reference.
type Assembler struct {
	templates map[string]string
	defaults  map[string]Value
	settings  ContextSettings
}

// New validates cfg and returns an Assembler with its own copies of the
// configured maps.
func New(cfg Config) (*Assembler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	a := &Assembler{
		templates: make(map[string]string, len(cfg.Templates)),
		defaults:  make(map[string]Value, len(cfg.DefaultVariables)),
		settings:  cfg.Context,
	}
	for id, body := range cfg.Templates {
		a.templates[id] = body
	}
	for k, v := range cfg.DefaultVariables {
		a.defaults[k] = v
	}
	return a, nil
}

// Settings returns the context settings the Assembler was built with.
func (a *Assembler) Settings() ContextSettings { return a.settings }

// TemplateCount reports how many templates are configured.
func (a *Assembler) TemplateCount() int { return len(a.templates) }

// resolution is the outcome of template lookup: either a configured
// template body or the raw prompt fallback.
type resolution struct {
	text         string
	templateID   string
	fromTemplate bool
}

func (a *Assembler) resolve(in Input) resolution {
	if in.TemplateID != "" {
		if body, ok := a.templates[in.TemplateID]; ok {
			return resolution{text: body, templateID: in.TemplateID, fromTemplate: true}
		}
	}
	return resolution{text: in.Prompt}
}

// effectiveVariables overlays the request variables on the configured
// defaults. The request wins on key collisions.
func (a *Assembler) effectiveVariables(call map[string]Value) map[string]Value {
	merged := make(map[string]Value, len(a.defaults)+len(call))
	for k, v := range a.defaults {
		merged[k] = v
	}
	for k, v := range call {
		merged[k] = v
	}
	return merged
}

// Invoke runs one assembly: resolve the template, substitute variables,
// prepend the context window, and enforce the token budget. A budget
// overflow returns *TooLargeError; any serialization failure is wrapped
// as a processing error. Failures never carry a partial result.
func (a *Assembler) Invoke(in Input) (*Result, error) {
	res := a.resolve(in)

	vars := a.effectiveVariables(in.Variables)
	text, err := substitute(res.text, vars)
	if err != nil {
		return nil, fmt.Errorf("prompt processing failed: %w", err)
	}

	block, err := contextBlock(in.Context, a.settings)
	if err != nil {
		return nil, fmt.Errorf("prompt processing failed: %w", err)
	}
	if block != "" {
		text = block + "\n\n" + text
	}

	estimated := EstimateTokens(text)
	if estimated > a.settings.MaxTokens {
		return nil, &TooLargeError{EstimatedTokens: estimated, MaxTokens: a.settings.MaxTokens}
	}

	return &Result{
		RenderedText: text,
		Metadata: Metadata{
			TemplateUsed:           res.templateID,
			VariablesReplacedCount: len(vars),
			EstimatedTokens:        estimated,
			ContextIncluded:        block != "",
		},
	}, nil
}
