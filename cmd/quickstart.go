package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var quickstartCmd = &cobra.Command{
	Use:   "quickstart",
	Short: "Show usage modes and getting started guide",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(`
Usage modes:

  1. One-shot assembly from the command line:
     promptforge init                       # Write a starter config and sample template
     promptforge assemble -t greet --var name=Ada
     promptforge assemble "Summarize {{topic}}" --var topic=Go --metadata

  2. HTTP API (for other services):
     promptforge serve                      # POST /v1/assemble, GET /v1/schema
     curl -s localhost:8750/v1/assemble -d '{"template_id":"greet","variables":{"name":"Ada"}}'

  3. MCP Server (for Claude Desktop / Cursor / Windsurf):
     Add to your MCP config (claude_desktop_config.json):

     {
       "mcpServers": {
         "promptforge": {
           "command": "/usr/local/bin/promptforge",
           "args": ["mcp"]
         }
       }
     }

  4. Model round trip (assemble and send to a backend):
     export OPENAI_API_KEY="your-key"
     promptforge complete -t greet --var name=Ada --conversation ada

For more information:
  promptforge help                # Show all commands
  promptforge <command> --help    # Help for specific command
  promptforge templates           # List configured templates
  promptforge schema              # Show the assembly input schema

`)
	},
}

func init() {
	rootCmd.AddCommand(quickstartCmd)
}
