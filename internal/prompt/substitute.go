package prompt

import (
	"fmt"
	"strings"
)

// substitute replaces every {{key}} token whose key is bound in vars,
// scanning left to right in a single pass. Inserted values are never
// rescanned, unbound tokens pass through unchanged, and an unclosed
// opening delimiter copies the remainder verbatim. Keys match literally:
// {{ name }} is the key " name ", not "name".
func substitute(text string, vars map[string]Value) (string, error) {
	if len(vars) == 0 || !strings.Contains(text, "{{") {
		return text, nil
	}
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		open := strings.Index(text[i:], "{{")
		if open < 0 {
			b.WriteString(text[i:])
			break
		}
		open += i
		b.WriteString(text[i:open])

		end := strings.Index(text[open+2:], "}}")
		if end < 0 {
			b.WriteString(text[open:])
			break
		}
		key := text[open+2 : open+2+end]
		val, ok := vars[key]
		if !ok {
			// Unbound. Emit one brace and rescan from the next byte so
			// overlapping candidates like {{{x}}} are still found.
			b.WriteByte('{')
			i = open + 1
			continue
		}
		rendered, err := val.DisplayText()
		if err != nil {
			return "", fmt.Errorf("render variable %q: %w", key, err)
		}
		b.WriteString(rendered)
		i = open + 2 + end + 2
	}
	return b.String(), nil
}

// Placeholders lists the distinct {{key}} names appearing in text, in
// order of first appearance. Unclosed delimiters and empty keys are
// ignored.
func Placeholders(text string) []string {
	var keys []string
	seen := make(map[string]bool)
	i := 0
	for i < len(text) {
		open := strings.Index(text[i:], "{{")
		if open < 0 {
			break
		}
		open += i
		end := strings.Index(text[open+2:], "}}")
		if end < 0 {
			break
		}
		key := text[open+2 : open+2+end]
		if key != "" && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
		i = open + 2 + end + 2
	}
	return keys
}
