package cmd

import (
	"github.com/spf13/cobra"

	"github.com/promptforge/promptforge/internal/logger"
	"github.com/promptforge/promptforge/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve assembly tools and prompts over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyLogConfig(cmd, cfg)

		assembler, cat, err := newEngine(cfg)
		if err != nil {
			return err
		}

		store, err := openHistory(cfg)
		if err != nil {
			logger.Warn("[MCP] history store unavailable, conversation context disabled: %v", err)
			store = nil
		}
		if store != nil {
			defer store.Close()
		}

		return mcp.Serve(mcp.NewServer(assembler, cat, store))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
