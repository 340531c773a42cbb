package prompt

import (
	"fmt"
	"strings"
)

// contextBlock renders the trailing window of context items as numbered
// lines, one item per line. It returns the empty string when history is
// disabled, the window is zero, or there are no items; the caller treats
// that as "no prefix".
func contextBlock(items []Value, settings ContextSettings) (string, error) {
	if !settings.IncludeHistory || settings.HistoryLength <= 0 || len(items) == 0 {
		return "", nil
	}
	window := items
	if len(window) > settings.HistoryLength {
		window = window[len(window)-settings.HistoryLength:]
	}
	var b strings.Builder
	for i, item := range window {
		text, err := item.DisplayText()
		if err != nil {
			return "", fmt.Errorf("render context item %d: %w", i+1, err)
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Context %d: %s", i+1, text)
	}
	return b.String(), nil
}
