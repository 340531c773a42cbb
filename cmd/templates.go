package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptforge/promptforge/internal/catalog"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List configured templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat, err := catalog.New(cfg.Assembly)
		if err != nil {
			return err
		}

		entries := cat.Describe()
		fmt.Printf("Templates (%d):\n", len(entries))
		for _, e := range entries {
			placeholders := "-"
			if len(e.Placeholders) > 0 {
				placeholders = strings.Join(e.Placeholders, ",")
			}
			fmt.Printf("- %s: placeholders=%s size=%dB tokens=%d\n",
				e.ID, placeholders, e.SizeBytes, e.EstimatedTokens)
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one template body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat, err := catalog.New(cfg.Assembly)
		if err != nil {
			return err
		}

		body, ok := cat.Get(args[0])
		if !ok {
			return fmt.Errorf("template %q not found", args[0])
		}
		fmt.Println(body)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesShowCmd)
}
