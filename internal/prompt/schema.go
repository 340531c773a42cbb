package prompt

// FieldSpec describes one accepted input field.
type FieldSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// InputSchema is the structural description of Input.
type InputSchema struct {
	Fields []FieldSpec `json:"fields"`
}

// DescribeInputSchema reports the accepted input shape for documentation
// and validation tooling. The answer is static: it does not depend on any
// configuration and never fails.
func DescribeInputSchema() InputSchema {
	return InputSchema{
		Fields: []FieldSpec{
			{
				Name:        "template_id",
				Type:        "string",
				Description: "Identifier of a configured template. Unknown identifiers fall back to the raw prompt.",
			},
			{
				Name:        "prompt",
				Type:        "string",
				Description: "Raw prompt text, used when no configured template matches.",
			},
			{
				Name:        "variables",
				Type:        "object",
				Description: "Map of placeholder name to value (string, number, bool, or structure). Overrides configured defaults per key.",
			},
			{
				Name:        "context",
				Type:        "array",
				Description: "Conversation history items, oldest first. The trailing window is prefixed as numbered context lines.",
			},
		},
	}
}
