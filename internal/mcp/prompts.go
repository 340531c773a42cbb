package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/promptforge/promptforge/internal/catalog"
	"github.com/promptforge/promptforge/internal/prompt"
)

// registerPrompts exposes each catalog template as an MCP prompt whose
// arguments are the template's placeholders. Argument values arrive as
// strings and are substituted verbatim.
func registerPrompts(s *server.MCPServer, assembler *prompt.Assembler, cat *catalog.Catalog) {
	for _, entry := range cat.Describe() {
		opts := []mcp.PromptOption{
			mcp.WithPromptDescription(fmt.Sprintf("Assemble the %q template.", entry.ID)),
		}
		for _, name := range entry.Placeholders {
			opts = append(opts, mcp.WithArgument(name,
				mcp.ArgumentDescription(fmt.Sprintf("Value for the {{%s}} placeholder.", name)),
			))
		}
		s.AddPrompt(mcp.NewPrompt(promptName(entry.ID), opts...), promptHandler(assembler, entry.ID))
	}
}

func promptHandler(assembler *prompt.Assembler, templateID string) server.PromptHandlerFunc {
	return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		in := prompt.Input{TemplateID: templateID}
		if len(req.Params.Arguments) > 0 {
			in.Variables = make(map[string]prompt.Value, len(req.Params.Arguments))
			for k, v := range req.Params.Arguments {
				in.Variables[k] = prompt.String(v)
			}
		}

		res, err := assembler.Invoke(in)
		if err != nil {
			return nil, fmt.Errorf("failed to assemble %q: %w", templateID, err)
		}

		return &mcp.GetPromptResult{
			Description: fmt.Sprintf("Assembled %q (%d estimated tokens)", templateID, res.Metadata.EstimatedTokens),
			Messages: []mcp.PromptMessage{
				{
					Role: mcp.RoleUser,
					Content: mcp.TextContent{
						Type: "text",
						Text: res.RenderedText,
					},
				},
			},
		}, nil
	}
}

// promptName maps a template identifier to a legal MCP prompt name.
// Nested identifiers use path separators, which some clients reject.
func promptName(templateID string) string {
	return strings.ReplaceAll(templateID, "/", "_")
}
