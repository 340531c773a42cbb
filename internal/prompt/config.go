package prompt

import "fmt"

// Config fixes an Assembler's behavior at construction time. The maps are
// copied by New, so later changes to the originals never reach a running
// Assembler.
type Config struct {
	// Templates maps template identifiers to their body text.
	Templates map[string]string
	// DefaultVariables are substituted into every request unless the
	// request overrides them per key.
	DefaultVariables map[string]Value
	// Context governs history prefixing and the token budget.
	Context ContextSettings
}

// ContextSettings holds the context-handling knobs.
type ContextSettings struct {
	// MaxTokens is the budget for the final rendered text. Must be
	// positive.
	MaxTokens int
	// IncludeHistory enables the numbered context prefix.
	IncludeHistory bool
	// HistoryLength is how many trailing context items are kept. Zero
	// disables the prefix even when IncludeHistory is set.
	HistoryLength int
}

func (c Config) validate() error {
	if c.Context.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.Context.MaxTokens)
	}
	if c.Context.HistoryLength < 0 {
		return fmt.Errorf("history length must not be negative, got %d", c.Context.HistoryLength)
	}
	return nil
}
