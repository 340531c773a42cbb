package prompt

import "fmt"

// TooLargeError reports a rendered prompt whose estimated token count
// exceeds the configured budget. It is the one failure the caller can fix
// by trimming input; no partial result accompanies it.
type TooLargeError struct {
	EstimatedTokens int
	MaxTokens       int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("prompt too large: estimated %d tokens exceeds limit of %d",
		e.EstimatedTokens, e.MaxTokens)
}
