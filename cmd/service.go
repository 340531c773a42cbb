package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptforge/promptforge/internal/service"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the promptforge system service",
	Long:  `Install, uninstall, start, stop, or check the status of the promptforge service running the HTTP API.`,
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install promptforge as a system service",
	Long:  `Install promptforge as a system service (requires root/admin privileges).`,
	Run: func(cmd *cobra.Command, args []string) {
		execPath, err := os.Executable()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting executable path: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Installing promptforge service...")
		if err := service.Install(execPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error installing service: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Service installed successfully!")
	},
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the promptforge service",
	Long:  `Uninstall the promptforge service (requires root/admin privileges).`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Uninstalling promptforge service...")
		if err := service.Uninstall(); err != nil {
			fmt.Fprintf(os.Stderr, "Error uninstalling service: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Service uninstalled successfully!")
	},
}

var serviceStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the promptforge service",
	Run: func(cmd *cobra.Command, args []string) {
		if err := service.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting service: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Service started!")
	},
}

var serviceStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the promptforge service",
	Run: func(cmd *cobra.Command, args []string) {
		if err := service.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error stopping service: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Service stopped!")
	},
}

var serviceRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the promptforge service",
	Run: func(cmd *cobra.Command, args []string) {
		if err := service.Restart(); err != nil {
			fmt.Fprintf(os.Stderr, "Error restarting service: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Service restarted!")
	},
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the status of the promptforge service",
	Run: func(cmd *cobra.Command, args []string) {
		installed := service.IsInstalled()
		running := service.IsRunning()

		binaryPath, configPath, err := service.Paths()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("=== promptforge Service Status ===")
		fmt.Println()
		fmt.Printf("Installed: %v\n", installed)
		fmt.Printf("Running:   %v\n", running)
		fmt.Println()
		fmt.Printf("Binary:    %s\n", binaryPath)
		fmt.Printf("Config:    %s\n", configPath)
		fmt.Printf("Log:       %s\n", service.LogPath)
	},
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(serviceInstallCmd)
	serviceCmd.AddCommand(serviceUninstallCmd)
	serviceCmd.AddCommand(serviceStartCmd)
	serviceCmd.AddCommand(serviceStopCmd)
	serviceCmd.AddCommand(serviceRestartCmd)
	serviceCmd.AddCommand(serviceStatusCmd)
}
