package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptforge/promptforge/internal/config"
	"github.com/promptforge/promptforge/internal/service"
)

var uninstallForce bool

var topLevelUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Fully remove promptforge from this system",
	Long: `Fully remove promptforge from this system, including:
  - System service (launchd/systemd)
  - Installed binary
  - Configuration file
  - Data directory (templates, history, audit records)
  - Log file

Requires confirmation unless --force is used.`,
	Run: runUninstall,
}

func init() {
	rootCmd.AddCommand(topLevelUninstallCmd)
	topLevelUninstallCmd.Flags().BoolVarP(&uninstallForce, "force", "f", false, "Skip confirmation prompt")
}

func runUninstall(cmd *cobra.Command, args []string) {
	if !uninstallForce {
		fmt.Println("This will fully remove promptforge from your system:")
		fmt.Println()

		if service.IsInstalled() {
			binaryPath, configPath, err := service.Paths()
			if err == nil {
				fmt.Printf("  - Service binary:  %s\n", binaryPath)
				fmt.Printf("  - Service config:  %s\n", configPath)
			}
		}
		fmt.Printf("  - Config file:     %s\n", config.ConfigPath())
		fmt.Printf("  - Data dir:        %s\n", config.DataDir())
		fmt.Printf("  - Log file:        %s\n", service.LogPath)
		fmt.Println()
		fmt.Print("Are you sure? [y/N] ")

		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	var errors []string

	if service.IsInstalled() {
		fmt.Println("Removing system service...")
		if err := service.Uninstall(); err != nil {
			errors = append(errors, fmt.Sprintf("service: %v", err))
		}
	}

	configFile := config.ConfigPath()
	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("Removing config file: %s\n", configFile)
		if err := os.Remove(configFile); err != nil {
			errors = append(errors, fmt.Sprintf("config file: %v", err))
		}
	}

	dataDir := config.DataDir()
	if _, err := os.Stat(dataDir); err == nil {
		fmt.Printf("Removing data dir: %s\n", dataDir)
		if err := os.RemoveAll(dataDir); err != nil {
			errors = append(errors, fmt.Sprintf("data dir: %v", err))
		}
	}

	if _, err := os.Stat(service.LogPath); err == nil {
		fmt.Printf("Removing log file: %s\n", service.LogPath)
		if err := os.Remove(service.LogPath); err != nil {
			errors = append(errors, fmt.Sprintf("log file: %v", err))
		}
	}

	fmt.Println()
	if len(errors) > 0 {
		fmt.Println("Completed with errors:")
		for _, e := range errors {
			fmt.Printf("  - %s\n", e)
		}
		os.Exit(1)
	}

	fmt.Println("promptforge has been fully uninstalled.")

	// The running binary may live outside the service install path.
	execPath, err := os.Executable()
	if err == nil {
		binaryPath, _, pathErr := service.Paths()
		if pathErr == nil && execPath != binaryPath {
			fmt.Printf("\nNote: this binary was not removed: %s\n", execPath)
			fmt.Println("You can delete it manually.")
		}
	}
}
