// Package mcp exposes the assembler over the Model Context Protocol:
// assembly and introspection as tools, plus every catalog template as a
// native MCP prompt. Transport is stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/promptforge/promptforge/internal/catalog"
	"github.com/promptforge/promptforge/internal/history"
	"github.com/promptforge/promptforge/internal/logger"
	"github.com/promptforge/promptforge/internal/prompt"
)

const (
	ServerName    = "promptforge"
	ServerVersion = "0.4.1"
)

// NewServer builds the MCP server: the assemble_prompt, list_templates
// and describe_input_schema tools, and one prompt per catalog template.
// store may be nil when no history database is configured.
func NewServer(assembler *prompt.Assembler, cat *catalog.Catalog, store *history.Store) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithLogging(),
	)

	s.AddTool(mcp.Tool{
		Name:        "assemble_prompt",
		Description: "Assemble a prompt from a template or raw text with variable substitution, optional conversation context, and a token budget check.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"template_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of a configured template. Unknown identifiers fall back to the raw prompt.",
				},
				"prompt": map[string]interface{}{
					"type":        "string",
					"description": "Raw prompt text, used when no configured template matches.",
				},
				"variables": map[string]interface{}{
					"type":        "object",
					"description": "Map of placeholder name to value. Overrides configured defaults per key.",
				},
				"context": map[string]interface{}{
					"type":        "array",
					"description": "Conversation history items, oldest first.",
				},
				"conversation": map[string]interface{}{
					"type":        "string",
					"description": "Conversation key whose stored turns are used as context when none are given inline.",
				},
			},
		},
	}, assembleHandler(assembler, store))

	s.AddTool(mcp.Tool{
		Name:        "list_templates",
		Description: "List the configured templates with their placeholders and sizes.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, listTemplatesHandler(cat))

	s.AddTool(mcp.Tool{
		Name:        "describe_input_schema",
		Description: "Describe the accepted assembly input fields.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, schemaHandler())

	registerPrompts(s, assembler, cat)

	return s
}

// Serve runs the server on stdio until the client disconnects.
func Serve(s *server.MCPServer) error {
	logger.Info("[MCP] serving %s %s on stdio", ServerName, ServerVersion)
	return server.ServeStdio(s)
}

func assembleHandler(assembler *prompt.Assembler, store *history.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var in prompt.Input

		if id, ok := req.Params.Arguments["template_id"].(string); ok {
			in.TemplateID = id
		}
		if raw, ok := req.Params.Arguments["prompt"].(string); ok {
			in.Prompt = raw
		}
		if vars, ok := req.Params.Arguments["variables"].(map[string]interface{}); ok {
			in.Variables = make(map[string]prompt.Value, len(vars))
			for k, v := range vars {
				in.Variables[k] = prompt.FromAny(v)
			}
		}
		if items, ok := req.Params.Arguments["context"].([]interface{}); ok {
			for _, item := range items {
				in.Context = append(in.Context, prompt.FromAny(item))
			}
		}

		if key, ok := req.Params.Arguments["conversation"].(string); ok && key != "" && len(in.Context) == 0 && store != nil {
			turns, err := store.Recent(key, assembler.Settings().HistoryLength)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to load conversation: %v", err)), nil
			}
			for _, line := range history.ContextStrings(turns) {
				in.Context = append(in.Context, prompt.String(line))
			}
		}

		res, err := assembler.Invoke(in)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(res.RenderedText), nil
	}
}

func listTemplatesHandler(cat *catalog.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.MarshalIndent(cat.Describe(), "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal templates: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func schemaHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.MarshalIndent(prompt.DescribeInputSchema(), "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal schema: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
