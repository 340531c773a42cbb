package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/promptforge/promptforge/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file and sample template",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigPath()
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}

		cfg := config.DefaultConfig()
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Wrote config: %s\n", path)

		dir := cfg.Assembly.TemplatesDir
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create templates dir: %w", err)
		}
		sample := filepath.Join(dir, "greet.md")
		if _, err := os.Stat(sample); os.IsNotExist(err) {
			body := "Hello {{name}}! Please help with {{task}}.\n"
			if err := os.WriteFile(sample, []byte(body), 0644); err != nil {
				return fmt.Errorf("write sample template: %w", err)
			}
			fmt.Printf("Wrote sample template: %s\n", sample)
		}

		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Println("  promptforge templates                  # list templates")
		fmt.Println("  promptforge assemble -t greet --var name=Ada --var task=testing")
		fmt.Println("  promptforge serve                      # run the HTTP API")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}
